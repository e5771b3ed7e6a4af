package entities

import (
	"time"

	"github.com/google/uuid"
)

// Activity event types appended to the audit log
const (
	EventTypeCredentialIssued      = "CREDENTIAL_ISSUED"
	EventTypeCredentialRevoked     = "CREDENTIAL_REVOKED"
	EventTypeCreatorRegistered     = "CREATOR_REGISTERED"
	EventTypeSubscribed            = "SUBSCRIBED"
	EventTypeSubscriptionUpdated   = "SUBSCRIPTION_UPDATED"
	EventTypeSubscriptionCancelled = "SUBSCRIPTION_CANCELLED"
	EventTypeChargeRecorded        = "CHARGE_RECORDED"
	EventTypeTipRecorded           = "TIP_RECORDED"
	EventTypeWithdrawalRequested   = "WITHDRAWAL_REQUESTED"
)

// ActivityEvent is an append-only audit record
type ActivityEvent struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	UserID    *uuid.UUID  `json:"userId,omitempty"`
	EventType string      `json:"eventType"`
	Metadata  interface{} `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time   `json:"createdAt"`
}
