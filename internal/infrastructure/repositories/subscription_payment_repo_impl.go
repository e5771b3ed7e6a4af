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

// SubscriptionPaymentRepository implements the append-only charge history
type SubscriptionPaymentRepository struct {
	db *gorm.DB
}

// NewSubscriptionPaymentRepository creates a new subscription payment repository
func NewSubscriptionPaymentRepository(db *gorm.DB) *SubscriptionPaymentRepository {
	return &SubscriptionPaymentRepository{db: db}
}

// Create inserts a payment row. The unique tx hash index enforces exactly one
// row per executed transaction attempt; a violation surfaces as ErrDuplicateTx.
func (r *SubscriptionPaymentRepository) Create(ctx context.Context, payment *entities.SubscriptionPayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = utils.NewID()
	}
	m := &models.SubscriptionPayment{
		ID:              payment.ID,
		SubscriptionID:  payment.SubscriptionID,
		TxHash:          payment.TxHash,
		Amount:          payment.Amount,
		ExecutedAt:      payment.ExecutedAt,
		ExecutorAddress: payment.ExecutorAddress,
		Status:          string(payment.Status),
		FailReason:      payment.FailReason,
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

// GetByTxHash gets a payment row by its transaction hash
func (r *SubscriptionPaymentRepository) GetByTxHash(ctx context.Context, txHash string) (*entities.SubscriptionPayment, error) {
	var m models.SubscriptionPayment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListBySubscription lists payments for a subscription ordered by execution time
func (r *SubscriptionPaymentRepository) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID, limit, offset int) ([]*entities.SubscriptionPayment, int, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.SubscriptionPayment{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.SubscriptionPayment
	if err := db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("executed_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var payments []*entities.SubscriptionPayment
	for i := range ms {
		payments = append(payments, r.toEntity(&ms[i]))
	}
	return payments, int(total), nil
}

// SumSuccessfulByCreator aggregates successful charge volume across a
// creator's subscriptions.
func (r *SubscriptionPaymentRepository) SumSuccessfulByCreator(ctx context.Context, creatorID uuid.UUID) (string, int64, error) {
	db := GetDB(ctx, r.db)

	var row struct {
		Total string
		Count int64
	}
	err := db.WithContext(ctx).Model(&models.SubscriptionPayment{}).
		Select("COALESCE(SUM(CAST(subscription_payments.amount AS DECIMAL(36,18))), 0) AS total, COUNT(*) AS count").
		Joins("JOIN subscriptions ON subscriptions.id = subscription_payments.subscription_id").
		Where("subscriptions.creator_id = ? AND subscription_payments.status = ?", creatorID, string(entities.PaymentStatusSuccess)).
		Scan(&row).Error
	if err != nil {
		return "0", 0, err
	}
	if row.Total == "" {
		row.Total = "0"
	}
	return row.Total, row.Count, nil
}

func (r *SubscriptionPaymentRepository) toEntity(m *models.SubscriptionPayment) *entities.SubscriptionPayment {
	return &entities.SubscriptionPayment{
		ID:              m.ID,
		SubscriptionID:  m.SubscriptionID,
		TxHash:          m.TxHash,
		Amount:          m.Amount,
		ExecutedAt:      m.ExecutedAt,
		ExecutorAddress: m.ExecutorAddress,
		Status:          entities.PaymentStatus(m.Status),
		FailReason:      m.FailReason,
	}
}
