package entities

import (
	"time"

	"github.com/google/uuid"
)

// User represents a wallet-identified account. Users are created on first
// interaction and never deleted.
type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	WalletAddress string    `json:"walletAddress"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// WalletLoginInput represents input for wallet-based login
type WalletLoginInput struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
}

// WalletLoginResponse represents the result of a wallet login
type WalletLoginResponse struct {
	UserID        uuid.UUID `json:"userId"`
	WalletAddress string    `json:"walletAddress"`
	AccessToken   string    `json:"accessToken"`
	RefreshToken  string    `json:"refreshToken"`
}
