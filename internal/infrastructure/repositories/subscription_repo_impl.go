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

// SubscriptionRepository implements subscription ledger data operations
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create creates a new subscription row
func (r *SubscriptionRepository) Create(ctx context.Context, subscription *entities.Subscription) error {
	if subscription.ID == uuid.Nil {
		subscription.ID = utils.NewID()
	}
	m := &models.Subscription{
		ID:                    subscription.ID,
		SubscriberUserID:      subscription.SubscriberUserID,
		CreatorID:             subscription.CreatorID,
		Amount:                subscription.Amount,
		TokenAddress:          subscription.TokenAddress,
		IntervalSeconds:       subscription.IntervalSeconds,
		NextPaymentAt:         subscription.NextPaymentAt,
		IsActive:              subscription.IsActive,
		OnchainSubscriptionID: subscription.OnchainSubscriptionID,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	subscription.CreatedAt = m.CreatedAt
	subscription.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a subscription by ID
func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Subscription, error) {
	var m models.Subscription
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetActiveByPair gets the active subscription for a (subscriber, creator)
// pair. At most one exists at a time.
func (r *SubscriptionRepository) GetActiveByPair(ctx context.Context, subscriberUserID, creatorID uuid.UUID) (*entities.Subscription, error) {
	var m models.Subscription
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("subscriber_user_id = ? AND creator_id = ? AND is_active = ?", subscriberUserID, creatorID, true).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListBySubscriber lists a subscriber's subscriptions with pagination
func (r *SubscriptionRepository) ListBySubscriber(ctx context.Context, subscriberUserID uuid.UUID, limit, offset int) ([]*entities.Subscription, int, error) {
	return r.list(ctx, "subscriber_user_id = ?", subscriberUserID, limit, offset)
}

// ListByCreator lists a creator's subscriptions with pagination
func (r *SubscriptionRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Subscription, int, error) {
	return r.list(ctx, "creator_id = ?", creatorID, limit, offset)
}

func (r *SubscriptionRepository) list(ctx context.Context, cond string, arg interface{}, limit, offset int) ([]*entities.Subscription, int, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.Subscription{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Subscription
	if err := db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var subscriptions []*entities.Subscription
	for i := range ms {
		subscriptions = append(subscriptions, r.toEntity(&ms[i]))
	}
	return subscriptions, int(total), nil
}

// ListDue lists active subscriptions whose next payment time has passed,
// oldest first. Eligibility is re-checked at charge time, not here.
func (r *SubscriptionRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*entities.Subscription, error) {
	var ms []models.Subscription
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("is_active = ? AND next_payment_at <= ?", true, now).
		Order("next_payment_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var subscriptions []*entities.Subscription
	for i := range ms {
		subscriptions = append(subscriptions, r.toEntity(&ms[i]))
	}
	return subscriptions, nil
}

// UpdateTerms changes amount and interval on an active subscription. The
// schedule is deliberately untouched.
func (r *SubscriptionRepository) UpdateTerms(ctx context.Context, id uuid.UUID, amount string, intervalSeconds int64) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"amount":           amount,
			"interval_seconds": intervalSeconds,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotActive
	}
	return nil
}

// AdvanceSchedule performs the atomic compare-and-advance of NextPaymentAt.
// The update succeeds only if the stored NextPaymentAt still equals the value
// the caller observed before executing the transfer; a losing racer gets
// ErrNotDue and its outcome is discarded. This is what guarantees at most one
// successful charge per due cycle under concurrent executors.
func (r *SubscriptionRepository) AdvanceSchedule(ctx context.Context, id uuid.UUID, observedNextPaymentAt time.Time, intervalSeconds int64) error {
	next := observedNextPaymentAt.Add(time.Duration(intervalSeconds) * time.Second)

	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND is_active = ? AND next_payment_at = ?", id, true, observedNextPaymentAt).
		Updates(map[string]interface{}{
			"next_payment_at": next,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotDue
	}
	return nil
}

// Deactivate cancels a subscription. Cancelling an already-cancelled
// subscription is a no-op so retried cancel requests are tolerated.
func (r *SubscriptionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) toEntity(m *models.Subscription) *entities.Subscription {
	return &entities.Subscription{
		ID:                    m.ID,
		SubscriberUserID:      m.SubscriberUserID,
		CreatorID:             m.CreatorID,
		Amount:                m.Amount,
		TokenAddress:          m.TokenAddress,
		IntervalSeconds:       m.IntervalSeconds,
		NextPaymentAt:         m.NextPaymentAt,
		IsActive:              m.IsActive,
		OnchainSubscriptionID: m.OnchainSubscriptionID,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
