package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
	"zk-tipping.backend/internal/infrastructure/models"
	"zk-tipping.backend/pkg/utils"
)

// CreatorRepository implements creator profile data operations
type CreatorRepository struct {
	db *gorm.DB
}

// NewCreatorRepository creates a new creator repository
func NewCreatorRepository(db *gorm.DB) *CreatorRepository {
	return &CreatorRepository{db: db}
}

// Create creates a new creator profile
func (r *CreatorRepository) Create(ctx context.Context, creator *entities.Creator) error {
	if creator.ID == uuid.Nil {
		creator.ID = utils.NewID()
	}
	m := r.toModel(creator)

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	creator.CreatedAt = m.CreatedAt
	creator.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a creator by ID
func (r *CreatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Creator, error) {
	var m models.Creator
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserID gets the creator profile owned by a user
func (r *CreatorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Creator, error) {
	var m models.Creator
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List lists creators with pagination
func (r *CreatorRepository) List(ctx context.Context, limit, offset int) ([]*entities.Creator, int, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.Creator{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Creator
	if err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var creators []*entities.Creator
	for i := range ms {
		creators = append(creators, r.toEntity(&ms[i]))
	}
	return creators, int(total), nil
}

// UpdateProfile updates mutable profile fields. Verification state is written
// once at Create and is not touched here.
func (r *CreatorRepository) UpdateProfile(ctx context.Context, creator *entities.Creator) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Creator{}).
		Where("id = ?", creator.ID).
		Updates(map[string]interface{}{
			"display_name":      creator.DisplayName.Ptr(),
			"bio":               creator.Bio.Ptr(),
			"profile_image_url": creator.ProfileImageURL.Ptr(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// AddLink attaches an external profile link
func (r *CreatorRepository) AddLink(ctx context.Context, link *entities.CreatorLink) error {
	if link.ID == uuid.Nil {
		link.ID = utils.NewID()
	}
	m := &models.CreatorLink{
		ID:        link.ID,
		CreatorID: link.CreatorID,
		Platform:  link.Platform,
		URL:       link.URL,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	link.CreatedAt = m.CreatedAt
	return nil
}

// ListLinks lists a creator's profile links
func (r *CreatorRepository) ListLinks(ctx context.Context, creatorID uuid.UUID) ([]*entities.CreatorLink, error) {
	var ms []models.CreatorLink
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var links []*entities.CreatorLink
	for _, m := range ms {
		links = append(links, &entities.CreatorLink{
			ID:        m.ID,
			CreatorID: m.CreatorID,
			Platform:  m.Platform,
			URL:       m.URL,
			CreatedAt: m.CreatedAt,
		})
	}
	return links, nil
}

func (r *CreatorRepository) toModel(e *entities.Creator) *models.Creator {
	return &models.Creator{
		ID:                 e.ID,
		UserID:             e.UserID,
		DisplayName:        e.DisplayName.Ptr(),
		Bio:                e.Bio.Ptr(),
		ProfileImageURL:    e.ProfileImageURL.Ptr(),
		IsVerified:         e.IsVerified,
		VerificationTxHash: e.VerificationTxHash.Ptr(),
	}
}

func (r *CreatorRepository) toEntity(m *models.Creator) *entities.Creator {
	return &entities.Creator{
		ID:                 m.ID,
		UserID:             m.UserID,
		DisplayName:        null.StringFromPtr(m.DisplayName),
		Bio:                null.StringFromPtr(m.Bio),
		ProfileImageURL:    null.StringFromPtr(m.ProfileImageURL),
		IsVerified:         m.IsVerified,
		VerificationTxHash: null.StringFromPtr(m.VerificationTxHash),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
