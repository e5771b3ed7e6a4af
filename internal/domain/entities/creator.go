package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Creator represents a creator profile. IsVerified is set exactly once, when
// the credential check passes at registration time.
type Creator struct {
	ID                 uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	UserID             uuid.UUID   `json:"userId"`
	DisplayName        null.String `json:"displayName,omitempty"`
	Bio                null.String `json:"bio,omitempty"`
	ProfileImageURL    null.String `json:"profileImageUrl,omitempty"`
	IsVerified         bool        `json:"isVerified"`
	VerificationTxHash null.String `json:"verificationTxHash,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// CreatorLink is an external profile link attached to a creator
type CreatorLink struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatorID uuid.UUID `json:"creatorId"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterCreatorInput represents input for creator registration
type RegisterCreatorInput struct {
	DisplayName        string `json:"displayName"`
	Bio                string `json:"bio"`
	ProfileImageURL    string `json:"profileImageUrl"`
	VerificationTxHash string `json:"verificationTxHash"`
}

// AddCreatorLinkInput represents input for attaching a profile link
type AddCreatorLinkInput struct {
	Platform string `json:"platform" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

// CreatorEarnings aggregates what a creator has earned across ledgers
type CreatorEarnings struct {
	CreatorID          uuid.UUID `json:"creatorId"`
	SubscriptionVolume string    `json:"subscriptionVolume"`
	TipVolume          string    `json:"tipVolume"`
	WithdrawnVolume    string    `json:"withdrawnVolume"`
	PaymentCount       int64     `json:"paymentCount"`
	TipCount           int64     `json:"tipCount"`
}
