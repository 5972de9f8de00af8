package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calendario-tech/review-console/internal/models"
	"github.com/calendario-tech/review-console/internal/services"
)

// AuthHandler handles operator session HTTP requests
type AuthHandler struct {
	sessions services.SessionService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions services.SessionService) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), req.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store session: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"expires_at": session.ExpiresAt})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session: " + err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	expiresAt, ok := h.sessions.ExpiresAt()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "expires_at": expiresAt})
}
