package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careconnect/careconnect/server/internal/auth"
	"github.com/careconnect/careconnect/server/internal/session"
)

// SignupRequest is the patient signup payload.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"required"`
}

// LoginRequest authenticates an email+password pair for a role.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"` // "patient" (default) | "admin"
}

// AuthHandler holds dependencies
type AuthHandler struct {
	authSvc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{authSvc: svc}
}

// Register routes under /api/auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/api/auth")
	a.POST("/signup", h.Signup)
	a.POST("/login", h.Login)
	a.POST("/logout", h.Logout)
	a.POST("/forgot-password", h.ForgotPassword)
	a.POST("/reset-password", h.ResetPassword)
	a.POST("/verify-email", h.VerifyEmail)
	a.POST("/resend-verification", h.ResendVerification)
	rg.GET("/api/me", h.Me)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := h.authSvc.Signup(c, req.Name, req.Email, req.Password, req.Phone)
	if !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role := session.RolePatient
	if req.Role != "" {
		parsed, okRole := session.ParseRole(req.Role)
		if !okRole {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported role"})
			return
		}
		role = parsed
	}
	res := h.authSvc.Login(c, req.Email, req.Password, role)
	if !res.Success {
		c.JSON(http.StatusUnauthorized, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, h.authSvc.Logout(c))
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := h.authSvc.SendPasswordReset(c.Request.Context(), req.Email)
	if !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		UserID   string `json:"userId" binding:"required"`
		Secret   string `json:"secret" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := h.authSvc.ResetPassword(c.Request.Context(), req.UserID, req.Secret, req.Password)
	if !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
		Secret string `json:"secret" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := h.authSvc.VerifyEmail(c.Request.Context(), req.UserID, req.Secret)
	if !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ResendVerification re-sends the verification email for the caller's
// own account; it requires a valid session cookie.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	rec := h.authSvc.Codec().Read(c)
	if rec == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	res := h.authSvc.ResendVerification(c.Request.Context(), rec.UserID)
	if !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Me returns the caller's session record, or 401 when no valid session
// cookie accompanies the request.
func (h *AuthHandler) Me(c *gin.Context) {
	rec := h.authSvc.Codec().Read(c)
	if rec == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": rec})
}
