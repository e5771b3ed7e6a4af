package entities

import (
	"time"

	"github.com/google/uuid"
)

// Credential represents a ZK-verified identity credential. A nullifier hash
// binds to at most one user ever. Credentials are immutable after issuance
// except for the revocation flag, which only moves false -> true.
type Credential struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID        uuid.UUID `json:"userId"`
	NullifierHash string    `json:"nullifierHash"`
	Issuer        string    `json:"issuer"`
	IsRevoked     bool      `json:"isRevoked"`
	VerifiedAt    time.Time `json:"verifiedAt"`
}

// RegisterCredentialInput represents input for registering a verified credential
type RegisterCredentialInput struct {
	NullifierHash string `json:"nullifierHash" binding:"required"`
	Issuer        string `json:"issuer" binding:"required"`
}

// VerifyProofInput carries an opaque ZK proof for the external verifier
type VerifyProofInput struct {
	Proof  string `json:"proof" binding:"required"`
	Issuer string `json:"issuer" binding:"required"`
}
