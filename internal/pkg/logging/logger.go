// Package logging builds the service's zap loggers and carries them through
// request contexts so every line lands with service and trace identity.
package logging

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the JSON stdout logger the service runs on. Service and
// environment names are stamped onto every entry.
func NewLogger(service, env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	cfg.InitialFields = map[string]any{
		"service": service,
		"env":     env,
	}

	return cfg.Build()
}

// MustNewLogger is like NewLogger but panics if the logger cannot be created.
func MustNewLogger(service, env string) *zap.Logger {
	logger, err := NewLogger(service, env)
	if err != nil {
		panic(err)
	}
	return logger
}

// WithTrace stamps the span's trace identity onto the logger. Outside a
// recorded trace, as in startup code, both fields carry the literal "system"
// so log pipelines can always rely on them being present.
func WithTrace(logger *zap.Logger, sc trace.SpanContext) *zap.Logger {
	if logger == nil {
		logger = zap.L()
	}

	traceID, spanID := "system", "system"
	if sc.HasTraceID() {
		traceID = sc.TraceID().String()
		spanID = sc.SpanID().String()
	}

	return logger.With(
		zap.String("trace_id", traceID),
		zap.String("span_id", spanID),
	)
}
