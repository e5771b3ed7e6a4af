package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"zk-tipping.backend/internal/domain/entities"
	"zk-tipping.backend/internal/interfaces/http/middleware"
	"zk-tipping.backend/internal/interfaces/http/response"
	"zk-tipping.backend/pkg/jwt"
)

// AuthService defines the auth operations the handler needs
type AuthService interface {
	WalletLogin(ctx context.Context, input *entities.WalletLoginInput) (*entities.WalletLoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	GetProfile(ctx context.Context, userID string) (*entities.User, error)
}

// AuthHandler handles wallet session endpoints
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// WalletLogin handles wallet login
// POST /api/v1/auth/wallet-login
func (h *AuthHandler) WalletLogin(c *gin.Context) {
	var input entities.WalletLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.WalletLogin(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, tokens)
}

// Me returns the authenticated user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), userID.String())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
