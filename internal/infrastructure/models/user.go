package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	WalletAddress string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_wallet"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
