package models

import (
	"time"

	"github.com/google/uuid"
)

type Tip struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	FromUserID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatorID    uuid.UUID `gorm:"type:uuid;not null;index:idx_tips_creator"`
	Amount       string    `gorm:"type:decimal(36,18);not null"`
	TokenAddress string    `gorm:"type:varchar(255);not null"`
	TxHash       string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_tips_tx"`
	CreatedAt    time.Time
}

type Withdrawal struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CreatorID    uuid.UUID `gorm:"type:uuid;not null;index:idx_withdrawals_creator"`
	Amount       string    `gorm:"type:decimal(36,18);not null"`
	TokenAddress string    `gorm:"type:varchar(255);not null"`
	TxHash       string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_withdrawals_tx"`
	RequestedAt  time.Time `gorm:"not null"`
}
