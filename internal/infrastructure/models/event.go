package models

import (
	"time"

	"github.com/google/uuid"
)

type ActivityEvent struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	EventType string     `gorm:"type:varchar(100);not null;index"`
	Metadata  string     `gorm:"type:jsonb;default:'{}'"`
	CreatedAt time.Time
}

func (ActivityEvent) TableName() string {
	return "events"
}
