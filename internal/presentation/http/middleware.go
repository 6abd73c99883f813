package httppresentation

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	domuser "github.com/grocermart/grocermart/internal/domain/user"
	"github.com/grocermart/grocermart/internal/pkg/logging"
)

const ctxUserKey = "authenticated_user"

// withTrace opens a server span per request and stores a trace-enriched
// logger on the request context for downstream services.
func (h *Handler) withTrace() gin.HandlerFunc {
	tracer := otel.Tracer("grocermart.http")

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		logger := logging.WithTrace(h.logger, span.SpanContext())

		c.Request = c.Request.WithContext(logging.ContextWithLogger(ctx, logger))
		c.Next()

		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
	}
}

// withObservability records the access log line and the HTTP metrics for
// every request, keyed by route template to keep label cardinality low.
func (h *Handler) withObservability() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		h.metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		h.metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		logging.FromContext(c.Request.Context()).Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		)
	}
}

// withCartSession guarantees every visitor carries a cart session cookie,
// minting one on first contact. Carts exist before login.
func (h *Handler) withCartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := c.Cookie(cartCookie); err != nil {
			sid := h.ids.NewID()
			c.SetCookie(cartCookie, sid, cartCookieMaxAge, "/", "", false, true)
			// SetCookie only touches the response; later handlers in this
			// request read the session id from the request cookie.
			c.Request.AddCookie(&http.Cookie{Name: cartCookie, Value: sid})
		}
		c.Next()
	}
}

func (h *Handler) sessionID(c *gin.Context) string {
	sid, _ := c.Cookie(cartCookie)
	return sid
}

// requireUser resolves the signed-in account from the session cookie and
// aborts with 401 when there is none.
func (h *Handler) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(userCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}

		u, err := h.auth.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}

		c.Set(ctxUserKey, u)
		c.Next()
	}
}

func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domuser.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domuser.User)
	return u
}
