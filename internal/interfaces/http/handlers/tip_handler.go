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

// TipService defines the tip and withdrawal operations the handler needs
type TipService interface {
	RecordTip(ctx context.Context, fromUserID uuid.UUID, input *entities.RecordTipInput) (*entities.Tip, error)
	RequestWithdrawal(ctx context.Context, userID uuid.UUID, input *entities.RequestWithdrawalInput) (*entities.Withdrawal, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Tip, int, error)
	ListWithdrawals(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Withdrawal, int, error)
}

// TipHandler handles tip and withdrawal endpoints
type TipHandler struct {
	tipService TipService
}

// NewTipHandler creates a new tip handler
func NewTipHandler(tipService TipService) *TipHandler {
	return &TipHandler{tipService: tipService}
}

// RecordTip records a tip receipt
// POST /api/v1/tips
func (h *TipHandler) RecordTip(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input entities.RecordTipInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tip, err := h.tipService.RecordTip(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, tip)
}

// RequestWithdrawal records a payout request for the caller's creator profile
// POST /api/v1/withdrawals
func (h *TipHandler) RequestWithdrawal(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input entities.RequestWithdrawalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := h.tipService.RequestWithdrawal(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, withdrawal)
}

// ListByCreator lists tips received by a creator
// GET /api/v1/creators/:id/tips
func (h *TipHandler) ListByCreator(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	tips, total, err := h.tipService.ListByCreator(c.Request.Context(), id, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	if tips == nil {
		tips = []*entities.Tip{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"tips":       tips,
		"pagination": utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}

// ListWithdrawals lists payout requests made by a creator
// GET /api/v1/creators/:id/withdrawals
func (h *TipHandler) ListWithdrawals(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	withdrawals, total, err := h.tipService.ListWithdrawals(c.Request.Context(), id, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	if withdrawals == nil {
		withdrawals = []*entities.Withdrawal{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"withdrawals": withdrawals,
		"pagination":  utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}
