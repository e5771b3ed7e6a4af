package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
)

func seedSubscription(t *testing.T, repo *SubscriptionRepository, nextPaymentAt time.Time) *entities.Subscription {
	t.Helper()
	subscription := &entities.Subscription{
		SubscriberUserID:      uuid.New(),
		CreatorID:             uuid.New(),
		Amount:                "1000000000000000000",
		TokenAddress:          "0xtoken",
		IntervalSeconds:       86400,
		NextPaymentAt:         nextPaymentAt,
		IsActive:              true,
		OnchainSubscriptionID: uuid.NewString(),
	}
	require.NoError(t, repo.Create(context.Background(), subscription))
	return subscription
}

func TestSubscriptionRepo_CreateAndGetByID(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTables(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	next := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	subscription := seedSubscription(t, repo, next)
	require.NotEqual(t, uuid.Nil, subscription.ID)

	got, err := repo.GetByID(ctx, subscription.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.Amount, got.Amount)
	assert.Equal(t, int64(86400), got.IntervalSeconds)
	assert.True(t, got.IsActive)
	assert.True(t, got.NextPaymentAt.Equal(next))

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSubscriptionRepo_DuplicateOnchainID(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTables(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	subscription := seedSubscription(t, repo, time.Now().UTC())

	err := repo.Create(ctx, &entities.Subscription{
		SubscriberUserID:      uuid.New(),
		CreatorID:             uuid.New(),
		Amount:                "1",
		TokenAddress:          "0xtoken",
		IntervalSeconds:       86400,
		NextPaymentAt:         time.Now().UTC(),
		IsActive:              true,
		OnchainSubscriptionID: subscription.OnchainSubscriptionID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestSubscriptionRepo_GetActiveByPair(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTables(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	subscription := seedSubscription(t, repo, time.Now().UTC())

	got, err := repo.GetActiveByPair(ctx, subscription.SubscriberUserID, subscription.CreatorID)
	require.NoError(t, err)
	assert.Equal(t, subscription.ID, got.ID)

	require.NoError(t, repo.Deactivate(ctx, subscription.ID))

	_, err = repo.GetActiveByPair(ctx, subscription.SubscriberUserID, subscription.CreatorID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSubscriptionRepo_AdvanceSchedule(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTables(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	observed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	subscription := seedSubscription(t, repo, observed)

	require.NoError(t, repo.AdvanceSchedule(ctx, subscription.ID, observed, 86400))

	got, err := repo.GetByID(ctx, subscription.ID)
	require.NoError(t, err)
	assert.True(t, got.NextPaymentAt.Equal(observed.Add(24*time.Hour)))
}

// A second advance against the same observed timestamp must lose: the stored
// schedule no longer matches, so the update hits zero rows.
func TestSubscriptionRepo_AdvanceSchedule_StaleObservationLoses(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTables(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	observed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	subscription := seedSubscription(t, repo, observed)

	require.NoError(t, repo.AdvanceSchedule(ctx, subscription.ID, observed, 86400))

	err := repo.AdvanceSchedule(ctx, subscription.ID, observed, 86400)
	assert.ErrorIs(t, err, domainerrors.ErrNotDue)

	// Schedule moved exactly one interval, not two.
	got, err := repo.GetByID(ctx, subscription.ID)
	require.NoError(t, err)
	assert.True(t, got.NextPaymentAt.Equal(observed.Add(24*time.Hour)))
}

func TestSubscriptionRepo_AdvanceSchedule_InactiveSubscription(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTables(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	observed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	subscription := seedSubscription(t, repo, observed)
	require.NoError(t, repo.Deactivate(ctx, subscription.ID))

	err := repo.AdvanceSchedule(ctx, subscription.ID, observed, 86400)
	assert.ErrorIs(t, err, domainerrors.ErrNotDue)
}

func TestSubscriptionRepo_UpdateTerms(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTables(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	next := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	subscription := seedSubscription(t, repo, next)

	require.NoError(t, repo.UpdateTerms(ctx, subscription.ID, "2000", 604800))

	got, err := repo.GetByID(ctx, subscription.ID)
	require.NoError(t, err)
	assert.Equal(t, "2000", got.Amount)
	assert.Equal(t, int64(604800), got.IntervalSeconds)
	// Terms change never resets the schedule.
	assert.True(t, got.NextPaymentAt.Equal(next))
}

func TestSubscriptionRepo_UpdateTerms_Inactive(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTables(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	subscription := seedSubscription(t, repo, time.Now().UTC())
	require.NoError(t, repo.Deactivate(ctx, subscription.ID))

	err := repo.UpdateTerms(ctx, subscription.ID, "2000", 604800)
	assert.ErrorIs(t, err, domainerrors.ErrNotActive)
}

func TestSubscriptionRepo_Deactivate(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTables(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	subscription := seedSubscription(t, repo, time.Now().UTC())

	require.NoError(t, repo.Deactivate(ctx, subscription.ID))
	// Second cancel is tolerated.
	require.NoError(t, repo.Deactivate(ctx, subscription.ID))

	got, err := repo.GetByID(ctx, subscription.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, repo.Deactivate(ctx, uuid.New()), domainerrors.ErrNotFound)
}

func TestSubscriptionRepo_ListDue(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTables(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	overdue := seedSubscription(t, repo, now.Add(-2*time.Hour))
	dueExactly := seedSubscription(t, repo, now)
	seedSubscription(t, repo, now.Add(time.Hour)) // not yet due

	cancelled := seedSubscription(t, repo, now.Add(-time.Hour))
	require.NoError(t, repo.Deactivate(ctx, cancelled.ID))

	due, err := repo.ListDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	// Oldest due first.
	assert.Equal(t, overdue.ID, due[0].ID)
	assert.Equal(t, dueExactly.ID, due[1].ID)
}

func TestSubscriptionRepo_ListBySubscriberAndCreator(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTables(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	subscription := seedSubscription(t, repo, time.Now().UTC())
	seedSubscription(t, repo, time.Now().UTC())

	bySubscriber, total, err := repo.ListBySubscriber(ctx, subscription.SubscriberUserID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, bySubscriber, 1)
	assert.Equal(t, subscription.ID, bySubscriber[0].ID)

	byCreator, total, err := repo.ListByCreator(ctx, subscription.CreatorID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byCreator, 1)
	assert.Equal(t, subscription.ID, byCreator[0].ID)
}
