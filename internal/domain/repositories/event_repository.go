package repositories

import (
	"context"

	"github.com/google/uuid"
	"zk-tipping.backend/internal/domain/entities"
)

// ActivityEventRepository defines the append-only audit log
type ActivityEventRepository interface {
	Append(ctx context.Context, event *entities.ActivityEvent) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.ActivityEvent, int, error)
}
