package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
	"zk-tipping.backend/internal/domain/repositories"
	"zk-tipping.backend/pkg/logger"
	"zk-tipping.backend/pkg/metrics"
	"zk-tipping.backend/pkg/utils"
)

// SubscriptionUsecase owns subscription terms: subscribe, update, cancel.
// Schedule advances and payment history belong to the reconciler.
type SubscriptionUsecase struct {
	subscriptionRepo repositories.SubscriptionRepository
	paymentRepo      repositories.SubscriptionPaymentRepository
	creatorRepo      repositories.CreatorRepository
	credentialRepo   repositories.CredentialRepository
	eventRepo        repositories.ActivityEventRepository
	bounds           Bounds
	tokenAddress     string

	now func() time.Time
}

// NewSubscriptionUsecase creates a new subscription usecase
func NewSubscriptionUsecase(
	subscriptionRepo repositories.SubscriptionRepository,
	paymentRepo repositories.SubscriptionPaymentRepository,
	creatorRepo repositories.CreatorRepository,
	credentialRepo repositories.CredentialRepository,
	eventRepo repositories.ActivityEventRepository,
	bounds Bounds,
	tokenAddress string,
) *SubscriptionUsecase {
	return &SubscriptionUsecase{
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		creatorRepo:      creatorRepo,
		credentialRepo:   credentialRepo,
		eventRepo:        eventRepo,
		bounds:           bounds,
		tokenAddress:     tokenAddress,
		now:              time.Now,
	}
}

// Subscribe opens a subscription. The first charge may occur immediately:
// NextPaymentAt is set to now.
func (u *SubscriptionUsecase) Subscribe(ctx context.Context, subscriberUserID uuid.UUID, input *entities.SubscribeInput) (*entities.Subscription, error) {
	creatorID, err := uuid.Parse(input.CreatorID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid creator ID")
	}

	creator, err := u.creatorRepo.GetByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if !creator.IsVerified {
		return nil, domainerrors.ErrCreatorNotVerified
	}

	eligible, err := u.credentialRepo.HasActiveByUser(ctx, subscriberUserID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domainerrors.ErrSubscriberNotEligible
	}

	if _, err := u.bounds.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := u.bounds.ValidateInterval(input.IntervalSeconds); err != nil {
		return nil, err
	}

	existing, err := u.subscriptionRepo.GetActiveByPair(ctx, subscriberUserID, creatorID)
	if err != nil && err != domainerrors.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, domainerrors.ErrAlreadySubscribed
	}

	subscription := &entities.Subscription{
		SubscriberUserID:      subscriberUserID,
		CreatorID:             creatorID,
		Amount:                input.Amount,
		TokenAddress:          u.tokenAddress,
		IntervalSeconds:       input.IntervalSeconds,
		NextPaymentAt:         u.now(),
		IsActive:              true,
		OnchainSubscriptionID: utils.NewID().String(),
	}
	if err := u.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, err
	}

	metrics.SubscriptionsOpened.Inc()
	u.appendEvent(ctx, subscriberUserID, entities.EventTypeSubscribed, map[string]interface{}{
		"subscriptionId": subscription.ID.String(),
		"creatorId":      creatorID.String(),
	})

	logger.Info(ctx, "subscription opened",
		zap.String("subscription_id", subscription.ID.String()),
		zap.String("creator_id", creatorID.String()),
		zap.Int64("interval_seconds", input.IntervalSeconds),
	)
	return subscription, nil
}

// Update changes amount and interval on an active subscription owned by the
// caller. The charge schedule is not reset.
func (u *SubscriptionUsecase) Update(ctx context.Context, subscriberUserID, subscriptionID uuid.UUID, input *entities.UpdateSubscriptionInput) (*entities.Subscription, error) {
	subscription, err := u.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription.SubscriberUserID != subscriberUserID {
		return nil, domainerrors.ErrNotOwner
	}
	if !subscription.IsActive {
		return nil, domainerrors.ErrNotActive
	}

	if _, err := u.bounds.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := u.bounds.ValidateInterval(input.IntervalSeconds); err != nil {
		return nil, err
	}

	if err := u.subscriptionRepo.UpdateTerms(ctx, subscriptionID, input.Amount, input.IntervalSeconds); err != nil {
		return nil, err
	}

	subscription.Amount = input.Amount
	subscription.IntervalSeconds = input.IntervalSeconds

	u.appendEvent(ctx, subscriberUserID, entities.EventTypeSubscriptionUpdated, map[string]interface{}{
		"subscriptionId": subscriptionID.String(),
	})
	return subscription, nil
}

// Cancel deactivates a subscription. Cancelling twice is a no-op so retried
// cancel requests are tolerated. Cancelled subscriptions are never
// reactivated; subscribing again creates a new row.
func (u *SubscriptionUsecase) Cancel(ctx context.Context, subscriberUserID, subscriptionID uuid.UUID) error {
	subscription, err := u.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if subscription.SubscriberUserID != subscriberUserID {
		return domainerrors.ErrNotOwner
	}
	if !subscription.IsActive {
		return nil
	}

	if err := u.subscriptionRepo.Deactivate(ctx, subscriptionID); err != nil {
		return err
	}

	metrics.SubscriptionsCancelled.Inc()
	u.appendEvent(ctx, subscriberUserID, entities.EventTypeSubscriptionCancelled, map[string]interface{}{
		"subscriptionId": subscriptionID.String(),
	})

	logger.Info(ctx, "subscription cancelled", zap.String("subscription_id", subscriptionID.String()))
	return nil
}

// GetByID gets a subscription by ID
func (u *SubscriptionUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.Subscription, error) {
	return u.subscriptionRepo.GetByID(ctx, id)
}

// ListBySubscriber lists the caller's subscriptions
func (u *SubscriptionUsecase) ListBySubscriber(ctx context.Context, subscriberUserID uuid.UUID, limit, offset int) ([]*entities.Subscription, int, error) {
	return u.subscriptionRepo.ListBySubscriber(ctx, subscriberUserID, limit, offset)
}

// ListByCreator lists subscriptions to a creator
func (u *SubscriptionUsecase) ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Subscription, int, error) {
	return u.subscriptionRepo.ListByCreator(ctx, creatorID, limit, offset)
}

// ListPayments lists the charge history of a subscription
func (u *SubscriptionUsecase) ListPayments(ctx context.Context, subscriptionID uuid.UUID, limit, offset int) ([]*entities.SubscriptionPayment, int, error) {
	if _, err := u.subscriptionRepo.GetByID(ctx, subscriptionID); err != nil {
		return nil, 0, err
	}
	return u.paymentRepo.ListBySubscription(ctx, subscriptionID, limit, offset)
}

func (u *SubscriptionUsecase) appendEvent(ctx context.Context, userID uuid.UUID, eventType string, metadata map[string]interface{}) {
	if err := u.eventRepo.Append(ctx, &entities.ActivityEvent{
		UserID:    &userID,
		EventType: eventType,
		Metadata:  metadata,
	}); err != nil {
		logger.Warn(ctx, "failed to append activity event", zap.Error(err), zap.String("event_type", eventType))
	}
}
