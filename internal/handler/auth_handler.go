package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tarekm28/Ou3a-Joura/internal/middleware"
	"github.com/tarekm28/Ou3a-Joura/pkg/response"
)

// AuthHandler exchanges the API key for dashboard bearer tokens
type AuthHandler struct {
	auth *middleware.Auth
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *middleware.Auth) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type tokenRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// IssueToken handles POST /api/v1/auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "api_key is required")
		return
	}

	token, expiresAt, err := h.auth.IssueToken(req.APIKey)
	if err != nil {
		if errors.Is(err, middleware.ErrBadAPIKey) {
			response.Error(c, http.StatusUnauthorized, "invalid api key")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to sign token")
		return
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}
