package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
	"zk-tipping.backend/internal/interfaces/http/middleware"
	"zk-tipping.backend/internal/interfaces/http/response"
	"zk-tipping.backend/pkg/utils"
)

// SubscriptionService defines the subscription operations the handler needs
type SubscriptionService interface {
	Subscribe(ctx context.Context, subscriberUserID uuid.UUID, input *entities.SubscribeInput) (*entities.Subscription, error)
	Update(ctx context.Context, subscriberUserID, subscriptionID uuid.UUID, input *entities.UpdateSubscriptionInput) (*entities.Subscription, error)
	Cancel(ctx context.Context, subscriberUserID, subscriptionID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Subscription, error)
	ListBySubscriber(ctx context.Context, subscriberUserID uuid.UUID, limit, offset int) ([]*entities.Subscription, int, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Subscription, int, error)
	ListPayments(ctx context.Context, subscriptionID uuid.UUID, limit, offset int) ([]*entities.SubscriptionPayment, int, error)
}

// SubscriptionHandler handles subscription endpoints
type SubscriptionHandler struct {
	subscriptionService SubscriptionService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionService SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Subscribe opens a subscription
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input entities.SubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscription, err := h.subscriptionService.Subscribe(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, subscription)
}

// List lists the caller's subscriptions
// GET /api/v1/subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	subscriptions, total, err := h.subscriptionService.ListBySubscriber(c.Request.Context(), userID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	if subscriptions == nil {
		subscriptions = []*entities.Subscription{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"subscriptions": subscriptions,
		"pagination":    utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}

// Get gets a subscription the caller owns
// GET /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	subscription, err := h.subscriptionService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if subscription.SubscriberUserID != userID {
		response.Error(c, domainerrors.ErrNotOwner)
		return
	}

	response.Success(c, http.StatusOK, subscription)
}

// Update changes subscription terms
// PUT /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	var input entities.UpdateSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscription, err := h.subscriptionService.Update(c.Request.Context(), userID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, subscription)
}

// Cancel deactivates a subscription
// DELETE /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	if err := h.subscriptionService.Cancel(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Subscription cancelled"})
}

// Payments lists the charge history of a subscription
// GET /api/v1/subscriptions/:id/payments
func (h *SubscriptionHandler) Payments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	payments, total, err := h.subscriptionService.ListPayments(c.Request.Context(), id, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	if payments == nil {
		payments = []*entities.SubscriptionPayment{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"payments":   payments,
		"pagination": utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}
