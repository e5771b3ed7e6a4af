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

// EventService defines the activity log operations the handler needs
type EventService interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.ActivityEvent, int, error)
}

// EventHandler handles activity log endpoints
type EventHandler struct {
	eventService EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List lists the caller's activity events, newest first
// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	events, total, err := h.eventService.ListByUser(c.Request.Context(), userID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	if events == nil {
		events = []*entities.ActivityEvent{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"events":     events,
		"pagination": utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}
