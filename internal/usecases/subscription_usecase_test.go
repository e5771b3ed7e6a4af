package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
)

const testTokenAddress = "0x09Bc4E0D864854c6aFB6eB9A9cdF58aC190D0dF9"

type subscriptionFixture struct {
	usecase          *SubscriptionUsecase
	subscriptionRepo *MockSubscriptionRepository
	paymentRepo      *MockSubscriptionPaymentRepository
	creatorRepo      *MockCreatorRepository
	credentialRepo   *MockCredentialRepository
	eventRepo        *MockActivityEventRepository
}

func newSubscriptionFixture(t *testing.T) *subscriptionFixture {
	f := &subscriptionFixture{
		subscriptionRepo: new(MockSubscriptionRepository),
		paymentRepo:      new(MockSubscriptionPaymentRepository),
		creatorRepo:      new(MockCreatorRepository),
		credentialRepo:   new(MockCredentialRepository),
		eventRepo:        new(MockActivityEventRepository),
	}
	f.usecase = NewSubscriptionUsecase(f.subscriptionRepo, f.paymentRepo, f.creatorRepo, f.credentialRepo, f.eventRepo, testBounds(t), testTokenAddress)
	return f
}

func verifiedCreator() *entities.Creator {
	return &entities.Creator{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		IsVerified: true,
	}
}

func TestSubscribe_Success(t *testing.T) {
	f := newSubscriptionFixture(t)
	subscriberID := uuid.New()
	creator := verifiedCreator()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.usecase.now = func() time.Time { return now }

	f.creatorRepo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)
	f.credentialRepo.On("HasActiveByUser", mock.Anything, subscriberID).Return(true, nil)
	f.subscriptionRepo.On("GetActiveByPair", mock.Anything, subscriberID, creator.ID).Return(nil, domainerrors.ErrNotFound)
	f.subscriptionRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Subscription")).Return(nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	subscription, err := f.usecase.Subscribe(context.Background(), subscriberID, &entities.SubscribeInput{
		CreatorID:       creator.ID.String(),
		Amount:          "1000000000000000000",
		IntervalSeconds: 86400,
	})

	require.NoError(t, err)
	assert.True(t, subscription.IsActive)
	assert.Equal(t, now, subscription.NextPaymentAt, "first charge is due immediately")
	assert.Equal(t, testTokenAddress, subscription.TokenAddress)
	assert.NotEmpty(t, subscription.OnchainSubscriptionID)
	f.subscriptionRepo.AssertExpectations(t)
}

func TestSubscribe_CreatorNotVerified(t *testing.T) {
	f := newSubscriptionFixture(t)
	creator := verifiedCreator()
	creator.IsVerified = false

	f.creatorRepo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)

	_, err := f.usecase.Subscribe(context.Background(), uuid.New(), &entities.SubscribeInput{
		CreatorID:       creator.ID.String(),
		Amount:          "1000",
		IntervalSeconds: 86400,
	})

	assert.ErrorIs(t, err, domainerrors.ErrCreatorNotVerified)
}

func TestSubscribe_SubscriberNotEligible(t *testing.T) {
	f := newSubscriptionFixture(t)
	subscriberID := uuid.New()
	creator := verifiedCreator()

	f.creatorRepo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)
	f.credentialRepo.On("HasActiveByUser", mock.Anything, subscriberID).Return(false, nil)

	_, err := f.usecase.Subscribe(context.Background(), subscriberID, &entities.SubscribeInput{
		CreatorID:       creator.ID.String(),
		Amount:          "1000",
		IntervalSeconds: 86400,
	})

	assert.ErrorIs(t, err, domainerrors.ErrSubscriberNotEligible)
}

func TestSubscribe_BoundsEnforced(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		interval int64
		wantErr  error
	}{
		{"amount at min", "1", 86400, nil},
		{"amount at max", "1000000000000000000000000", 86400, nil},
		{"amount below min", "0", 86400, domainerrors.ErrAmountOutOfBounds},
		{"amount above max", "1000000000000000000000001", 86400, domainerrors.ErrAmountOutOfBounds},
		{"interval at min", "1000", 86400, nil},
		{"interval at max", "1000", 31536000, nil},
		{"interval below min", "1000", 86399, domainerrors.ErrIntervalOutOfBounds},
		{"interval above max", "1000", 31536001, domainerrors.ErrIntervalOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubscriptionFixture(t)
			subscriberID := uuid.New()
			creator := verifiedCreator()

			f.creatorRepo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)
			f.credentialRepo.On("HasActiveByUser", mock.Anything, subscriberID).Return(true, nil)
			f.subscriptionRepo.On("GetActiveByPair", mock.Anything, subscriberID, creator.ID).Return(nil, domainerrors.ErrNotFound)
			f.subscriptionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

			_, err := f.usecase.Subscribe(context.Background(), subscriberID, &entities.SubscribeInput{
				CreatorID:       creator.ID.String(),
				Amount:          tt.amount,
				IntervalSeconds: tt.interval,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.subscriptionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubscribe_AlreadySubscribed(t *testing.T) {
	f := newSubscriptionFixture(t)
	subscriberID := uuid.New()
	creator := verifiedCreator()

	f.creatorRepo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)
	f.credentialRepo.On("HasActiveByUser", mock.Anything, subscriberID).Return(true, nil)
	f.subscriptionRepo.On("GetActiveByPair", mock.Anything, subscriberID, creator.ID).
		Return(&entities.Subscription{ID: uuid.New(), IsActive: true}, nil)

	_, err := f.usecase.Subscribe(context.Background(), subscriberID, &entities.SubscribeInput{
		CreatorID:       creator.ID.String(),
		Amount:          "1000",
		IntervalSeconds: 86400,
	})

	assert.ErrorIs(t, err, domainerrors.ErrAlreadySubscribed)
}

func TestUpdate_OwnershipAndState(t *testing.T) {
	f := newSubscriptionFixture(t)
	owner := uuid.New()
	stranger := uuid.New()
	subscription := &entities.Subscription{
		ID:               uuid.New(),
		SubscriberUserID: owner,
		IsActive:         true,
		Amount:           "1000",
		IntervalSeconds:  86400,
	}

	f.subscriptionRepo.On("GetByID", mock.Anything, subscription.ID).Return(subscription, nil)

	_, err := f.usecase.Update(context.Background(), stranger, subscription.ID, &entities.UpdateSubscriptionInput{
		Amount:          "2000",
		IntervalSeconds: 86400,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotOwner)
}

func TestUpdate_Success_ScheduleNotReset(t *testing.T) {
	f := newSubscriptionFixture(t)
	owner := uuid.New()
	nextPaymentAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	subscription := &entities.Subscription{
		ID:               uuid.New(),
		SubscriberUserID: owner,
		IsActive:         true,
		Amount:           "1000",
		IntervalSeconds:  86400,
		NextPaymentAt:    nextPaymentAt,
	}

	f.subscriptionRepo.On("GetByID", mock.Anything, subscription.ID).Return(subscription, nil)
	f.subscriptionRepo.On("UpdateTerms", mock.Anything, subscription.ID, "2000", int64(604800)).Return(nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	updated, err := f.usecase.Update(context.Background(), owner, subscription.ID, &entities.UpdateSubscriptionInput{
		Amount:          "2000",
		IntervalSeconds: 604800,
	})

	require.NoError(t, err)
	assert.Equal(t, "2000", updated.Amount)
	assert.Equal(t, int64(604800), updated.IntervalSeconds)
	assert.Equal(t, nextPaymentAt, updated.NextPaymentAt, "update must not reset the schedule")
}

func TestUpdate_Inactive(t *testing.T) {
	f := newSubscriptionFixture(t)
	owner := uuid.New()
	subscription := &entities.Subscription{
		ID:               uuid.New(),
		SubscriberUserID: owner,
		IsActive:         false,
	}

	f.subscriptionRepo.On("GetByID", mock.Anything, subscription.ID).Return(subscription, nil)

	_, err := f.usecase.Update(context.Background(), owner, subscription.ID, &entities.UpdateSubscriptionInput{
		Amount:          "2000",
		IntervalSeconds: 86400,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotActive)
}

func TestCancel_IdempotentAndOwnerChecked(t *testing.T) {
	f := newSubscriptionFixture(t)
	owner := uuid.New()
	subscription := &entities.Subscription{
		ID:               uuid.New(),
		SubscriberUserID: owner,
		IsActive:         true,
	}

	f.subscriptionRepo.On("GetByID", mock.Anything, subscription.ID).Return(subscription, nil)
	f.subscriptionRepo.On("Deactivate", mock.Anything, subscription.ID).Return(nil).Once()
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.usecase.Cancel(context.Background(), owner, subscription.ID))

	// Second cancel sees an inactive subscription and is a no-op.
	subscription.IsActive = false
	require.NoError(t, f.usecase.Cancel(context.Background(), owner, subscription.ID))
	f.subscriptionRepo.AssertNumberOfCalls(t, "Deactivate", 1)

	// A stranger cannot cancel, active or not.
	subscription.IsActive = true
	assert.ErrorIs(t, f.usecase.Cancel(context.Background(), uuid.New(), subscription.ID), domainerrors.ErrNotOwner)
}
