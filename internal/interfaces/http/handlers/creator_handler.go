package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"zk-tipping.backend/internal/domain/entities"
	"zk-tipping.backend/internal/interfaces/http/middleware"
	"zk-tipping.backend/internal/interfaces/http/response"
	"zk-tipping.backend/pkg/utils"
)

// CreatorService defines the creator operations the handler needs
type CreatorService interface {
	Register(ctx context.Context, userID uuid.UUID, input *entities.RegisterCreatorInput) (*entities.Creator, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Creator, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Creator, error)
	List(ctx context.Context, limit, offset int) ([]*entities.Creator, int, error)
	IsCreator(ctx context.Context, walletAddress string) (bool, error)
	IsVerified(ctx context.Context, walletAddress string) (bool, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.RegisterCreatorInput) (*entities.Creator, error)
	AddLink(ctx context.Context, userID uuid.UUID, input *entities.AddCreatorLinkInput) (*entities.CreatorLink, error)
	ListLinks(ctx context.Context, creatorID uuid.UUID) ([]*entities.CreatorLink, error)
	GetEarnings(ctx context.Context, creatorID uuid.UUID) (*entities.CreatorEarnings, error)
}

// CreatorHandler handles creator endpoints
type CreatorHandler struct {
	creatorService CreatorService
}

// NewCreatorHandler creates a new creator handler
func NewCreatorHandler(creatorService CreatorService) *CreatorHandler {
	return &CreatorHandler{creatorService: creatorService}
}

// Register registers the caller as a creator
// POST /api/v1/creators
func (h *CreatorHandler) Register(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input entities.RegisterCreatorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creator, err := h.creatorService.Register(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, creator)
}

// List lists creators
// GET /api/v1/creators
func (h *CreatorHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	creators, total, err := h.creatorService.List(c.Request.Context(), params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	if creators == nil {
		creators = []*entities.Creator{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"creators":   creators,
		"pagination": utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}

// Get gets a creator by ID
// GET /api/v1/creators/:id
func (h *CreatorHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	creator, err := h.creatorService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, creator)
}

// Me returns the caller's creator profile
// GET /api/v1/creators/me
func (h *CreatorHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	creator, err := h.creatorService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, creator)
}

// Status reports creator status for a wallet address
// GET /api/v1/creators/status?wallet=0x...
func (h *CreatorHandler) Status(c *gin.Context) {
	wallet := c.Query("wallet")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet query parameter is required"})
		return
	}

	isCreator, err := h.creatorService.IsCreator(c.Request.Context(), wallet)
	if err != nil {
		response.Error(c, err)
		return
	}
	isVerified, err := h.creatorService.IsVerified(c.Request.Context(), wallet)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"isCreator":  isCreator,
		"isVerified": isVerified,
	})
}

// UpdateProfile updates the caller's creator profile
// PUT /api/v1/creators/me
func (h *CreatorHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input entities.RegisterCreatorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creator, err := h.creatorService.UpdateProfile(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, creator)
}

// AddLink attaches a profile link to the caller's creator
// POST /api/v1/creators/me/links
func (h *CreatorHandler) AddLink(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input entities.AddCreatorLinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.creatorService.AddLink(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, link)
}

// ListLinks lists a creator's profile links
// GET /api/v1/creators/:id/links
func (h *CreatorHandler) ListLinks(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	links, err := h.creatorService.ListLinks(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if links == nil {
		links = []*entities.CreatorLink{}
	}
	response.Success(c, http.StatusOK, gin.H{"links": links})
}

// Earnings aggregates a creator's earnings
// GET /api/v1/creators/:id/earnings
func (h *CreatorHandler) Earnings(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	earnings, err := h.creatorService.GetEarnings(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, earnings)
}
