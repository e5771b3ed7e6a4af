package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
	"zk-tipping.backend/internal/infrastructure/models"
	"zk-tipping.backend/pkg/utils"
)

// CredentialRepository implements credential registry data operations
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Create inserts a new credential. The unique nullifier index is the backstop
// against double registration; a violation surfaces as ErrDuplicateNullifier.
func (r *CredentialRepository) Create(ctx context.Context, credential *entities.Credential) error {
	if credential.ID == uuid.Nil {
		credential.ID = utils.NewID()
	}
	m := &models.ZkCredential{
		ID:            credential.ID,
		UserID:        credential.UserID,
		NullifierHash: credential.NullifierHash,
		Issuer:        credential.Issuer,
		IsRevoked:     credential.IsRevoked,
		VerifiedAt:    credential.VerifiedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrDuplicateNullifier
		}
		return err
	}
	return nil
}

// GetByNullifierHash gets a credential by its nullifier hash
func (r *CredentialRepository) GetByNullifierHash(ctx context.Context, nullifierHash string) (*entities.Credential, error) {
	var m models.ZkCredential
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("nullifier_hash = ?", nullifierHash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetActiveByUserAndIssuer gets a user's non-revoked credential from an issuer
func (r *CredentialRepository) GetActiveByUserAndIssuer(ctx context.Context, userID uuid.UUID, issuer string) (*entities.Credential, error) {
	var m models.ZkCredential
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("user_id = ? AND issuer = ? AND is_revoked = ?", userID, issuer, false).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// HasActiveByUser reports whether the user holds at least one non-revoked credential
func (r *CredentialRepository) HasActiveByUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Model(&models.ZkCredential{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Revoke flips the revocation flag. Revoking an already-revoked credential is
// a no-op; an unknown nullifier is ErrNotFound.
func (r *CredentialRepository) Revoke(ctx context.Context, nullifierHash string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.ZkCredential{}).
		Where("nullifier_hash = ?", nullifierHash).
		Update("is_revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either unknown or already revoked; only the former is an error.
		var count int64
		if err := db.WithContext(ctx).Model(&models.ZkCredential{}).
			Where("nullifier_hash = ?", nullifierHash).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
	}
	return nil
}

// ListByUser lists all credentials held by a user, including revoked ones
func (r *CredentialRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Credential, error) {
	var ms []models.ZkCredential
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("verified_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var credentials []*entities.Credential
	for i := range ms {
		credentials = append(credentials, r.toEntity(&ms[i]))
	}
	return credentials, nil
}

func (r *CredentialRepository) toEntity(m *models.ZkCredential) *entities.Credential {
	return &entities.Credential{
		ID:            m.ID,
		UserID:        m.UserID,
		NullifierHash: m.NullifierHash,
		Issuer:        m.Issuer,
		IsRevoked:     m.IsRevoked,
		VerifiedAt:    m.VerifiedAt,
	}
}
