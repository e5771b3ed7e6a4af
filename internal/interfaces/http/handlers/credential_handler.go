package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"zk-tipping.backend/internal/domain/entities"
	"zk-tipping.backend/internal/interfaces/http/middleware"
	"zk-tipping.backend/internal/interfaces/http/response"
)

// CredentialService defines the credential registry operations the handler needs
type CredentialService interface {
	VerifyAndRegister(ctx context.Context, userID uuid.UUID, input *entities.VerifyProofInput) (*entities.Credential, error)
	Register(ctx context.Context, userID uuid.UUID, nullifierHash, issuer string) (*entities.Credential, error)
	Revoke(ctx context.Context, nullifierHash string) error
	IsEligible(ctx context.Context, userID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Credential, error)
}

// CredentialHandler handles credential registry endpoints
type CredentialHandler struct {
	credentialService CredentialService
}

// NewCredentialHandler creates a new credential handler
func NewCredentialHandler(credentialService CredentialService) *CredentialHandler {
	return &CredentialHandler{credentialService: credentialService}
}

// VerifyProof verifies a ZK proof and registers the resulting credential
// POST /api/v1/credentials/verify
func (h *CredentialHandler) VerifyProof(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input entities.VerifyProofInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	credential, err := h.credentialService.VerifyAndRegister(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, credential)
}

// Register registers an already-verified credential
// POST /api/v1/credentials
func (h *CredentialHandler) Register(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input entities.RegisterCredentialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	credential, err := h.credentialService.Register(c.Request.Context(), userID, input.NullifierHash, input.Issuer)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, credential)
}

// Revoke revokes a credential by nullifier hash
// DELETE /api/v1/credentials/:nullifierHash
func (h *CredentialHandler) Revoke(c *gin.Context) {
	nullifierHash := c.Param("nullifierHash")
	if nullifierHash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nullifier hash is required"})
		return
	}

	if err := h.credentialService.Revoke(c.Request.Context(), nullifierHash); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Credential revoked"})
}

// Eligibility reports whether the caller can subscribe or tip
// GET /api/v1/credentials/eligibility
func (h *CredentialHandler) Eligibility(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	eligible, err := h.credentialService.IsEligible(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"eligible": eligible})
}

// List lists the caller's credentials
// GET /api/v1/credentials
func (h *CredentialHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	credentials, err := h.credentialService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if credentials == nil {
		credentials = []*entities.Credential{}
	}
	response.Success(c, http.StatusOK, gin.H{"credentials": credentials})
}
