package models

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SubscriberUserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatorID             uuid.UUID `gorm:"type:uuid;not null;index:idx_subscriptions_creator"`
	Amount                string    `gorm:"type:decimal(36,18);not null"`
	TokenAddress          string    `gorm:"type:varchar(255);not null"`
	IntervalSeconds       int64     `gorm:"not null"`
	NextPaymentAt         time.Time `gorm:"not null;index"`
	IsActive              bool      `gorm:"not null;default:true;index"`
	OnchainSubscriptionID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_subscriptions_onchain_id"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type SubscriptionPayment struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SubscriptionID  uuid.UUID `gorm:"type:uuid;not null;index"`
	TxHash          string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_subscription_payments_tx"`
	Amount          string    `gorm:"type:decimal(36,18);not null"`
	ExecutedAt      time.Time `gorm:"not null;index"`
	ExecutorAddress string    `gorm:"type:varchar(255)"`
	Status          string    `gorm:"type:varchar(20);not null"`
	FailReason      string    `gorm:"type:varchar(100)"`
}
