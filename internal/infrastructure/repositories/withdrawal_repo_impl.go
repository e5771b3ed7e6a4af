package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
	"zk-tipping.backend/internal/infrastructure/models"
	"zk-tipping.backend/pkg/utils"
)

// WithdrawalRepository implements the append-only withdrawal ledger
type WithdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Create inserts a withdrawal row; duplicate tx hashes surface as ErrDuplicateTx
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *entities.Withdrawal) error {
	if withdrawal.ID == uuid.Nil {
		withdrawal.ID = utils.NewID()
	}
	if withdrawal.RequestedAt.IsZero() {
		withdrawal.RequestedAt = time.Now()
	}
	m := &models.Withdrawal{
		ID:           withdrawal.ID,
		CreatorID:    withdrawal.CreatorID,
		Amount:       withdrawal.Amount,
		TokenAddress: withdrawal.TokenAddress,
		TxHash:       withdrawal.TxHash,
		RequestedAt:  withdrawal.RequestedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrDuplicateTx
		}
		return err
	}
	return nil
}

// GetByTxHash gets a withdrawal by its transaction hash
func (r *WithdrawalRepository) GetByTxHash(ctx context.Context, txHash string) (*entities.Withdrawal, error) {
	var m models.Withdrawal
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByCreator lists withdrawals requested by a creator
func (r *WithdrawalRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Withdrawal, int, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.Withdrawal{}).
		Where("creator_id = ?", creatorID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Withdrawal
	if err := db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("requested_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var withdrawals []*entities.Withdrawal
	for i := range ms {
		withdrawals = append(withdrawals, r.toEntity(&ms[i]))
	}
	return withdrawals, int(total), nil
}

// SumByCreator aggregates withdrawn volume for a creator
func (r *WithdrawalRepository) SumByCreator(ctx context.Context, creatorID uuid.UUID) (string, error) {
	db := GetDB(ctx, r.db)

	var total string
	err := db.WithContext(ctx).Model(&models.Withdrawal{}).
		Select("COALESCE(SUM(CAST(amount AS DECIMAL(36,18))), 0)").
		Where("creator_id = ?", creatorID).
		Scan(&total).Error
	if err != nil {
		return "0", err
	}
	if total == "" {
		total = "0"
	}
	return total, nil
}

func (r *WithdrawalRepository) toEntity(m *models.Withdrawal) *entities.Withdrawal {
	return &entities.Withdrawal{
		ID:           m.ID,
		CreatorID:    m.CreatorID,
		Amount:       m.Amount,
		TokenAddress: m.TokenAddress,
		TxHash:       m.TxHash,
		RequestedAt:  m.RequestedAt,
	}
}
