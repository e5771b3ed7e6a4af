package entities

import (
	"time"

	"github.com/google/uuid"
)

// Tip is an append-only record of a one-off tip, keyed by unique tx hash
type Tip struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	FromUserID   uuid.UUID `json:"fromUserId"`
	CreatorID    uuid.UUID `json:"creatorId"`
	Amount       string    `json:"amount" gorm:"type:decimal(36,18)"`
	TokenAddress string    `json:"tokenAddress"`
	TxHash       string    `json:"txHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Withdrawal is an append-only record of a creator payout request
type Withdrawal struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatorID    uuid.UUID `json:"creatorId"`
	Amount       string    `json:"amount" gorm:"type:decimal(36,18)"`
	TokenAddress string    `json:"tokenAddress"`
	TxHash       string    `json:"txHash"`
	RequestedAt  time.Time `json:"requestedAt"`
}

// RecordTipInput represents input for recording a tip
type RecordTipInput struct {
	CreatorID    string `json:"creatorId" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	TokenAddress string `json:"tokenAddress" binding:"required"`
	TxHash       string `json:"txHash" binding:"required"`
}

// RequestWithdrawalInput represents input for recording a payout request
type RequestWithdrawalInput struct {
	Amount       string `json:"amount" binding:"required"`
	TokenAddress string `json:"tokenAddress" binding:"required"`
	TxHash       string `json:"txHash" binding:"required"`
}
