package httppresentation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domuser "github.com/grocermart/grocermart/internal/domain/user"
)

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Address  string `json:"address,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Role     string `json:"role"`
}

func toUserResponse(u *domuser.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Address:  u.Address,
		Contact:  u.Contact,
		Role:     string(u.Role),
	}
}

func (h *Handler) handleRegister(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Address  string `json:"address"`
		Contact  string `json:"contact"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.Address, req.Contact)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(u))
}

func (h *Handler) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(userCookie, token, userCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *Handler) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(userCookie); err == nil && token != "" {
		h.auth.Logout(c.Request.Context(), token)
	}
	c.SetCookie(userCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, toUserResponse(currentUser(c)))
}

func (h *Handler) handleAdminListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *Handler) handleAdminSetRole(c *gin.Context) {
	uid, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	role := domuser.Role(req.Role)
	if role != domuser.RoleUser && role != domuser.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	if err := h.users.UpdateRole(c.Request.Context(), uid, role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": uid, "role": string(role)})
}

func (h *Handler) handleAdminDeleteUser(c *gin.Context) {
	uid, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	// Admins cannot delete their own account while signed in with it.
	if u := currentUser(c); u != nil && u.ID == uid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete the signed-in account"})
		return
	}

	if err := h.users.Delete(c.Request.Context(), uid); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
