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
)

// ReconcilerUsecase is the only writer of the payment ledger and the only
// mutator of charge schedules. Advancing the schedule and appending the
// payment row happen in one transaction, so the ledger and the schedule can
// never disagree about whether a cycle was charged.
type ReconcilerUsecase struct {
	subscriptionRepo repositories.SubscriptionRepository
	paymentRepo      repositories.SubscriptionPaymentRepository
	eventRepo        repositories.ActivityEventRepository
	uow              repositories.UnitOfWork
}

// NewReconcilerUsecase creates a new reconciler usecase
func NewReconcilerUsecase(
	subscriptionRepo repositories.SubscriptionRepository,
	paymentRepo repositories.SubscriptionPaymentRepository,
	eventRepo repositories.ActivityEventRepository,
	uow repositories.UnitOfWork,
) *ReconcilerUsecase {
	return &ReconcilerUsecase{
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		eventRepo:        eventRepo,
		uow:              uow,
	}
}

// RecordChargeSuccess advances the schedule past the observed cycle and
// appends the success row. When a concurrent attempt already advanced the same
// cycle, the whole write is discarded and ErrNotDue is returned; the caller's
// outcome loses.
func (u *ReconcilerUsecase) RecordChargeSuccess(ctx context.Context, subscription *entities.Subscription, observedNextPaymentAt time.Time, txHash, executorAddress string, executedAt time.Time) (*entities.SubscriptionPayment, error) {
	payment := &entities.SubscriptionPayment{
		SubscriptionID:  subscription.ID,
		TxHash:          txHash,
		Amount:          subscription.Amount,
		ExecutedAt:      executedAt,
		ExecutorAddress: executorAddress,
		Status:          entities.PaymentStatusSuccess,
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.subscriptionRepo.AdvanceSchedule(txCtx, subscription.ID, observedNextPaymentAt, subscription.IntervalSeconds); err != nil {
			return err
		}
		return u.paymentRepo.Create(txCtx, payment)
	})
	if err != nil {
		if err == domainerrors.ErrNotDue {
			logger.Info(ctx, "charge lost schedule race, outcome discarded",
				zap.String("subscription_id", subscription.ID.String()),
				zap.String("tx_hash", txHash),
			)
		}
		return nil, err
	}

	u.appendChargeEvent(ctx, subscription, payment)
	return payment, nil
}

// RecordChargeFailure appends a failed attempt row. The schedule is untouched:
// failed cycles stay due and are retried on the next sweep. Replaying the same
// attempt hash is a no-op.
func (u *ReconcilerUsecase) RecordChargeFailure(ctx context.Context, subscription *entities.Subscription, txHash, executorAddress, reason string, executedAt time.Time) (*entities.SubscriptionPayment, error) {
	payment := &entities.SubscriptionPayment{
		SubscriptionID:  subscription.ID,
		TxHash:          txHash,
		Amount:          subscription.Amount,
		ExecutedAt:      executedAt,
		ExecutorAddress: executorAddress,
		Status:          entities.PaymentStatusFailed,
		FailReason:      reason,
	}

	if err := u.paymentRepo.Create(ctx, payment); err != nil {
		if err == domainerrors.ErrDuplicateTx {
			return u.resolveReplay(ctx, payment)
		}
		return nil, err
	}

	u.appendChargeEvent(ctx, subscription, payment)
	return payment, nil
}

// Record ingests an externally observed charge receipt. Replaying a receipt
// already in the ledger is a no-op returning the stored row; a receipt reusing
// a tx hash with different facts is rejected with ErrDuplicateTx. For success
// receipts the schedule is repaired forward if it was not already advanced.
func (u *ReconcilerUsecase) Record(ctx context.Context, subscriptionID uuid.UUID, txHash, executorAddress string, status entities.PaymentStatus, reason string, executedAt time.Time) (*entities.SubscriptionPayment, error) {
	subscription, err := u.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	payment := &entities.SubscriptionPayment{
		SubscriptionID:  subscription.ID,
		TxHash:          txHash,
		Amount:          subscription.Amount,
		ExecutedAt:      executedAt,
		ExecutorAddress: executorAddress,
		Status:          status,
		FailReason:      reason,
	}

	if existing, err := u.paymentRepo.GetByTxHash(ctx, txHash); err == nil {
		return u.matchReplay(existing, payment)
	} else if err != domainerrors.ErrNotFound {
		return nil, err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if status == entities.PaymentStatusSuccess {
			err := u.subscriptionRepo.AdvanceSchedule(txCtx, subscription.ID, subscription.NextPaymentAt, subscription.IntervalSeconds)
			if err != nil && err != domainerrors.ErrNotDue {
				return err
			}
			// ErrNotDue here means the schedule already moved past this
			// cycle; the ledger row is still appended.
		}
		return u.paymentRepo.Create(txCtx, payment)
	})
	if err != nil {
		if err == domainerrors.ErrDuplicateTx {
			return u.resolveReplay(ctx, payment)
		}
		return nil, err
	}

	u.appendChargeEvent(ctx, subscription, payment)
	return payment, nil
}

// resolveReplay re-reads a conflicting tx hash and decides between benign
// replay and hard conflict.
func (u *ReconcilerUsecase) resolveReplay(ctx context.Context, attempted *entities.SubscriptionPayment) (*entities.SubscriptionPayment, error) {
	existing, err := u.paymentRepo.GetByTxHash(ctx, attempted.TxHash)
	if err != nil {
		return nil, domainerrors.ErrDuplicateTx
	}
	return u.matchReplay(existing, attempted)
}

func (u *ReconcilerUsecase) matchReplay(existing, attempted *entities.SubscriptionPayment) (*entities.SubscriptionPayment, error) {
	if existing.SubscriptionID == attempted.SubscriptionID &&
		existing.Status == attempted.Status &&
		existing.Amount == attempted.Amount {
		return existing, nil
	}
	return nil, domainerrors.ErrDuplicateTx
}

func (u *ReconcilerUsecase) appendChargeEvent(ctx context.Context, subscription *entities.Subscription, payment *entities.SubscriptionPayment) {
	if err := u.eventRepo.Append(ctx, &entities.ActivityEvent{
		UserID:    &subscription.SubscriberUserID,
		EventType: entities.EventTypeChargeRecorded,
		Metadata: map[string]interface{}{
			"subscriptionId": subscription.ID.String(),
			"txHash":         payment.TxHash,
			"status":         string(payment.Status),
		},
	}); err != nil {
		logger.Warn(ctx, "failed to append activity event", zap.Error(err), zap.String("event_type", entities.EventTypeChargeRecorded))
	}
}
