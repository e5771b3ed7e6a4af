package entities

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the outcome of an executed charge attempt
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Charge failure reasons recorded alongside failed outcomes
const (
	FailReasonInsufficientFunds = "INSUFFICIENT_FUNDS"
	FailReasonReverted          = "REVERTED"
	FailReasonTimeout           = "TIMEOUT"
	FailReasonTransport         = "TRANSPORT_ERROR"
)

// Subscription represents recurring payment terms between a subscriber and a
// creator. NextPaymentAt only moves forward, by exactly IntervalSeconds per
// successful charge. IsActive goes true -> false once, via cancellation;
// re-subscribing creates a new row with a fresh OnchainSubscriptionID.
type Subscription struct {
	ID                    uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	SubscriberUserID      uuid.UUID `json:"subscriberUserId"`
	CreatorID             uuid.UUID `json:"creatorId"`
	Amount                string    `json:"amount" gorm:"type:decimal(36,18)"`
	TokenAddress          string    `json:"tokenAddress"`
	IntervalSeconds       int64     `json:"intervalSeconds"`
	NextPaymentAt         time.Time `json:"nextPaymentAt"`
	IsActive              bool      `json:"isActive"`
	OnchainSubscriptionID string    `json:"onchainSubscriptionId"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// SubscriptionPayment is one append-only ledger row per executed transaction
// attempt. TxHash is globally unique; rows are never mutated after insertion.
type SubscriptionPayment struct {
	ID              uuid.UUID     `json:"id" gorm:"type:uuid;primary_key"`
	SubscriptionID  uuid.UUID     `json:"subscriptionId"`
	TxHash          string        `json:"txHash"`
	Amount          string        `json:"amount" gorm:"type:decimal(36,18)"`
	ExecutedAt      time.Time     `json:"executedAt"`
	ExecutorAddress string        `json:"executorAddress"`
	Status          PaymentStatus `json:"status"`
	FailReason      string        `json:"failReason,omitempty"`
}

// ChargeOutcome is the result of a charge attempt against a due subscription.
// Every invocation against a due subscription yields exactly one outcome.
type ChargeOutcome struct {
	SubscriptionID uuid.UUID     `json:"subscriptionId"`
	Status         PaymentStatus `json:"status"`
	TxHash         string        `json:"txHash,omitempty"`
	Reason         string        `json:"reason,omitempty"`
	NextPaymentAt  time.Time     `json:"nextPaymentAt"`
}

// SubscribeInput represents input for opening a subscription
type SubscribeInput struct {
	CreatorID       string `json:"creatorId" binding:"required"`
	Amount          string `json:"amount" binding:"required"`
	IntervalSeconds int64  `json:"intervalSeconds" binding:"required"`
}

// UpdateSubscriptionInput represents input for changing subscription terms
type UpdateSubscriptionInput struct {
	Amount          string `json:"amount" binding:"required"`
	IntervalSeconds int64  `json:"intervalSeconds" binding:"required"`
}

// ChargeInput represents input for a permissionless charge trigger. The
// executor address is audit bookkeeping only, never an authorization gate.
type ChargeInput struct {
	ExecutorAddress string `json:"executorAddress" binding:"required"`
}
