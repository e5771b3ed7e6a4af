package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"zk-tipping.backend/internal/domain/entities"
	"zk-tipping.backend/internal/interfaces/http/response"
)

// ChargeService defines the charge operations the handler needs
type ChargeService interface {
	CanCharge(ctx context.Context, subscriptionID uuid.UUID) (bool, error)
	TimeUntilNextCharge(ctx context.Context, subscriptionID uuid.UUID) (time.Duration, error)
	ChargeSubscription(ctx context.Context, subscriptionID uuid.UUID, executorAddress string) (*entities.ChargeOutcome, error)
}

// ReceiptService defines receipt ingestion for externally executed charges
type ReceiptService interface {
	Record(ctx context.Context, subscriptionID uuid.UUID, txHash, executorAddress string, status entities.PaymentStatus, reason string, executedAt time.Time) (*entities.SubscriptionPayment, error)
}

// ChargeHandler handles charge endpoints. These are unauthenticated:
// charging is permissionless, the schedule itself is the guard.
type ChargeHandler struct {
	chargeService  ChargeService
	receiptService ReceiptService
}

// NewChargeHandler creates a new charge handler
func NewChargeHandler(chargeService ChargeService, receiptService ReceiptService) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService, receiptService: receiptService}
}

// Charge attempts to charge a due subscription
// POST /api/v1/subscriptions/:id/charge
func (h *ChargeHandler) Charge(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	var input entities.ChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.chargeService.ChargeSubscription(c.Request.Context(), id, input.ExecutorAddress)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, outcome)
}

// Chargeable reports whether a subscription can be charged right now
// GET /api/v1/subscriptions/:id/chargeable
func (h *ChargeHandler) Chargeable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	chargeable, err := h.chargeService.CanCharge(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	remaining, err := h.chargeService.TimeUntilNextCharge(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"chargeable":       chargeable,
		"secondsUntilNext": int64(remaining.Seconds()),
	})
}

// RecordReceipt ingests a receipt for an externally executed charge
// POST /api/v1/subscriptions/:id/receipts
func (h *ChargeHandler) RecordReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	var input struct {
		TxHash          string `json:"txHash" binding:"required"`
		ExecutorAddress string `json:"executorAddress" binding:"required"`
		Status          string `json:"status" binding:"required"`
		Reason          string `json:"reason"`
		ExecutedAt      int64  `json:"executedAt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := entities.PaymentStatus(input.Status)
	if status != entities.PaymentStatusSuccess && status != entities.PaymentStatusFailed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be success or failed"})
		return
	}

	payment, err := h.receiptService.Record(c.Request.Context(), id, input.TxHash, input.ExecutorAddress, status, input.Reason, time.Unix(input.ExecutedAt, 0))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, payment)
}
