package models

import (
	"time"

	"github.com/google/uuid"
)

type Creator struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index:idx_creators_user"`
	DisplayName        *string   `gorm:"type:text"`
	Bio                *string   `gorm:"type:text"`
	ProfileImageURL    *string   `gorm:"type:text"`
	IsVerified         bool      `gorm:"not null;default:false"`
	VerificationTxHash *string   `gorm:"type:varchar(255)"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type CreatorLink struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Platform  string    `gorm:"type:varchar(100);not null"`
	URL       string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}
