package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"zk-tipping.backend/internal/domain/entities"
	"zk-tipping.backend/internal/infrastructure/models"
	"zk-tipping.backend/pkg/utils"
)

// ActivityEventRepository implements the append-only audit log
type ActivityEventRepository struct {
	db *gorm.DB
}

// NewActivityEventRepository creates a new activity event repository
func NewActivityEventRepository(db *gorm.DB) *ActivityEventRepository {
	return &ActivityEventRepository{db: db}
}

// Append inserts an audit record
func (r *ActivityEventRepository) Append(ctx context.Context, event *entities.ActivityEvent) error {
	if event.ID == uuid.Nil {
		event.ID = utils.NewID()
	}

	metadata := "{}"
	if event.Metadata != nil {
		if raw, err := json.Marshal(event.Metadata); err == nil {
			metadata = string(raw)
		}
	}

	m := &models.ActivityEvent{
		ID:        event.ID,
		UserID:    event.UserID,
		EventType: event.EventType,
		Metadata:  metadata,
	}

	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// ListByUser lists audit records for a user
func (r *ActivityEventRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.ActivityEvent, int, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.ActivityEvent{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.ActivityEvent
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var events []*entities.ActivityEvent
	for _, m := range ms {
		var metadata interface{}
		if m.Metadata != "" {
			_ = json.Unmarshal([]byte(m.Metadata), &metadata)
		}
		events = append(events, &entities.ActivityEvent{
			ID:        m.ID,
			UserID:    m.UserID,
			EventType: m.EventType,
			Metadata:  metadata,
			CreatedAt: m.CreatedAt,
		})
	}
	return events, int(total), nil
}
