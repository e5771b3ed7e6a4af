package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"zk-tipping.backend/internal/domain/entities"
)

// SubscriptionRepository defines subscription ledger data operations.
//
// AdvanceSchedule is the single compare-and-advance used by concurrent charge
// attempts: it moves NextPaymentAt forward by the subscription's interval only
// if the stored value still equals the observed one, and reports ErrNotDue
// otherwise. Deactivate is idempotent.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entities.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Subscription, error)
	GetActiveByPair(ctx context.Context, subscriberUserID, creatorID uuid.UUID) (*entities.Subscription, error)
	ListBySubscriber(ctx context.Context, subscriberUserID uuid.UUID, limit, offset int) ([]*entities.Subscription, int, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Subscription, int, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]*entities.Subscription, error)
	UpdateTerms(ctx context.Context, id uuid.UUID, amount string, intervalSeconds int64) error
	AdvanceSchedule(ctx context.Context, id uuid.UUID, observedNextPaymentAt time.Time, intervalSeconds int64) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// SubscriptionPaymentRepository defines the append-only charge history.
// Rows are keyed by globally unique tx hash and never mutated.
type SubscriptionPaymentRepository interface {
	Create(ctx context.Context, payment *entities.SubscriptionPayment) error
	GetByTxHash(ctx context.Context, txHash string) (*entities.SubscriptionPayment, error)
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID, limit, offset int) ([]*entities.SubscriptionPayment, int, error)
	SumSuccessfulByCreator(ctx context.Context, creatorID uuid.UUID) (string, int64, error)
}
