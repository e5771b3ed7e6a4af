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

// TipRepository implements the append-only tip ledger
type TipRepository struct {
	db *gorm.DB
}

// NewTipRepository creates a new tip repository
func NewTipRepository(db *gorm.DB) *TipRepository {
	return &TipRepository{db: db}
}

// Create inserts a tip row; duplicate tx hashes surface as ErrDuplicateTx
func (r *TipRepository) Create(ctx context.Context, tip *entities.Tip) error {
	if tip.ID == uuid.Nil {
		tip.ID = utils.NewID()
	}
	m := &models.Tip{
		ID:           tip.ID,
		FromUserID:   tip.FromUserID,
		CreatorID:    tip.CreatorID,
		Amount:       tip.Amount,
		TokenAddress: tip.TokenAddress,
		TxHash:       tip.TxHash,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrDuplicateTx
		}
		return err
	}
	tip.CreatedAt = m.CreatedAt
	return nil
}

// GetByTxHash gets a tip by its transaction hash
func (r *TipRepository) GetByTxHash(ctx context.Context, txHash string) (*entities.Tip, error) {
	var m models.Tip
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByCreator lists tips received by a creator
func (r *TipRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Tip, int, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.Tip{}).
		Where("creator_id = ?", creatorID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Tip
	if err := db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var tips []*entities.Tip
	for i := range ms {
		tips = append(tips, r.toEntity(&ms[i]))
	}
	return tips, int(total), nil
}

// SumByCreator aggregates tip volume for a creator
func (r *TipRepository) SumByCreator(ctx context.Context, creatorID uuid.UUID) (string, int64, error) {
	db := GetDB(ctx, r.db)

	var row struct {
		Total string
		Count int64
	}
	err := db.WithContext(ctx).Model(&models.Tip{}).
		Select("COALESCE(SUM(CAST(amount AS DECIMAL(36,18))), 0) AS total, COUNT(*) AS count").
		Where("creator_id = ?", creatorID).
		Scan(&row).Error
	if err != nil {
		return "0", 0, err
	}
	if row.Total == "" {
		row.Total = "0"
	}
	return row.Total, row.Count, nil
}

func (r *TipRepository) toEntity(m *models.Tip) *entities.Tip {
	return &entities.Tip{
		ID:           m.ID,
		FromUserID:   m.FromUserID,
		CreatorID:    m.CreatorID,
		Amount:       m.Amount,
		TokenAddress: m.TokenAddress,
		TxHash:       m.TxHash,
		CreatedAt:    m.CreatedAt,
	}
}
