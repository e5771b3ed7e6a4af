package models

import (
	"time"

	"github.com/google/uuid"
)

type ZkCredential struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	NullifierHash string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_credentials_nullifier"`
	Issuer        string    `gorm:"type:varchar(255);not null"`
	IsRevoked     bool      `gorm:"not null;default:false"`
	VerifiedAt    time.Time `gorm:"not null"`
}

func (ZkCredential) TableName() string {
	return "zk_credentials"
}
