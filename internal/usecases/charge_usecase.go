package usecases

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
	"zk-tipping.backend/internal/domain/repositories"
	"zk-tipping.backend/pkg/logger"
	"zk-tipping.backend/pkg/metrics"
)

// TransferGateway executes an on-chain token transfer from subscriber to
// creator and returns the transaction hash. A non-empty hash alongside an
// error means the transaction reached the chain and failed there.
type TransferGateway interface {
	Transfer(ctx context.Context, from, to, token string, amount *big.Int) (string, error)
}

// AttemptHashFunc derives a unique pseudo tx hash for an attempt that never
// reached the chain.
type AttemptHashFunc func(subscriptionID string, cycle time.Time, executor string, at time.Time) string

// ChargeUsecase executes due charges. Charging is permissionless: anyone may
// trigger it, the executor address is recorded for audit only. Concurrency
// safety comes from the reconciler's compare-and-advance, not from locking
// here.
type ChargeUsecase struct {
	subscriptionRepo repositories.SubscriptionRepository
	credentialRepo   repositories.CredentialRepository
	creatorRepo      repositories.CreatorRepository
	userRepo         repositories.UserRepository
	reconciler       *ReconcilerUsecase
	gateway          TransferGateway
	attemptHash      AttemptHashFunc
	callTimeout      time.Duration

	now func() time.Time
}

// NewChargeUsecase creates a new charge usecase
func NewChargeUsecase(
	subscriptionRepo repositories.SubscriptionRepository,
	credentialRepo repositories.CredentialRepository,
	creatorRepo repositories.CreatorRepository,
	userRepo repositories.UserRepository,
	reconciler *ReconcilerUsecase,
	gateway TransferGateway,
	attemptHash AttemptHashFunc,
	callTimeout time.Duration,
) *ChargeUsecase {
	return &ChargeUsecase{
		subscriptionRepo: subscriptionRepo,
		credentialRepo:   credentialRepo,
		creatorRepo:      creatorRepo,
		userRepo:         userRepo,
		reconciler:       reconciler,
		gateway:          gateway,
		attemptHash:      attemptHash,
		callTimeout:      callTimeout,
		now:              time.Now,
	}
}

// CanCharge reports whether a subscription is chargeable right now: active,
// due, and backed by a non-revoked subscriber credential.
func (u *ChargeUsecase) CanCharge(ctx context.Context, subscriptionID uuid.UUID) (bool, error) {
	subscription, err := u.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return false, err
	}
	if !subscription.IsActive {
		return false, nil
	}
	if u.now().Before(subscription.NextPaymentAt) {
		return false, nil
	}
	return u.credentialRepo.HasActiveByUser(ctx, subscription.SubscriberUserID)
}

// TimeUntilNextCharge returns how long until the subscription is next due.
// Zero means due now.
func (u *ChargeUsecase) TimeUntilNextCharge(ctx context.Context, subscriptionID uuid.UUID) (time.Duration, error) {
	subscription, err := u.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return 0, err
	}
	remaining := subscription.NextPaymentAt.Sub(u.now())
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// ChargeSubscription attempts to charge one due cycle. Exactly one of three
// things happens: a success row plus a schedule advance, a failure row with
// the schedule untouched, or ErrNotDue with nothing written. A failed charge
// is a recorded outcome, not an error.
func (u *ChargeUsecase) ChargeSubscription(ctx context.Context, subscriptionID uuid.UUID, executorAddress string) (*entities.ChargeOutcome, error) {
	subscription, err := u.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !subscription.IsActive {
		return nil, domainerrors.ErrNotActive
	}
	if u.now().Before(subscription.NextPaymentAt) {
		metrics.ObserveCharge(metrics.OutcomeNotDue)
		return nil, domainerrors.ErrNotDue
	}

	eligible, err := u.credentialRepo.HasActiveByUser(ctx, subscription.SubscriberUserID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domainerrors.ErrSubscriberNotEligible
	}

	subscriber, err := u.userRepo.GetByID(ctx, subscription.SubscriberUserID)
	if err != nil {
		return nil, err
	}
	creator, err := u.creatorRepo.GetByID(ctx, subscription.CreatorID)
	if err != nil {
		return nil, err
	}
	creatorUser, err := u.userRepo.GetByID(ctx, creator.UserID)
	if err != nil {
		return nil, err
	}

	amount, ok := new(big.Int).SetString(subscription.Amount, 10)
	if !ok {
		return nil, domainerrors.InternalError("malformed subscription amount", nil)
	}

	// The observed cycle anchors the compare-and-advance: if another
	// attempt advances past it first, this outcome is discarded.
	observed := subscription.NextPaymentAt

	transferCtx, cancel := context.WithTimeout(ctx, u.callTimeout)
	defer cancel()

	executedAt := u.now()
	txHash, transferErr := u.gateway.Transfer(transferCtx, subscriber.WalletAddress, creatorUser.WalletAddress, subscription.TokenAddress, amount)

	if transferErr == nil {
		payment, err := u.reconciler.RecordChargeSuccess(ctx, subscription, observed, txHash, executorAddress, executedAt)
		if err != nil {
			if err == domainerrors.ErrNotDue {
				metrics.ObserveCharge(metrics.OutcomeNotDue)
			}
			return nil, err
		}

		metrics.ObserveCharge(metrics.OutcomeSuccess)
		logger.Info(ctx, "subscription charged",
			zap.String("subscription_id", subscription.ID.String()),
			zap.String("tx_hash", txHash),
			zap.String("executor", executorAddress),
		)
		return &entities.ChargeOutcome{
			SubscriptionID: subscription.ID,
			Status:         entities.PaymentStatusSuccess,
			TxHash:         payment.TxHash,
			NextPaymentAt:  observed.Add(time.Duration(subscription.IntervalSeconds) * time.Second),
		}, nil
	}

	reason := classifyTransferError(transferErr)
	if txHash == "" {
		txHash = u.attemptHash(subscription.ID.String(), observed, executorAddress, executedAt)
	}

	if _, err := u.reconciler.RecordChargeFailure(ctx, subscription, txHash, executorAddress, reason, executedAt); err != nil {
		return nil, err
	}

	metrics.ObserveCharge(metrics.OutcomeFailed)
	logger.Warn(ctx, "subscription charge failed",
		zap.String("subscription_id", subscription.ID.String()),
		zap.String("reason", reason),
		zap.Error(transferErr),
	)
	return &entities.ChargeOutcome{
		SubscriptionID: subscription.ID,
		Status:         entities.PaymentStatusFailed,
		TxHash:         txHash,
		Reason:         reason,
		NextPaymentAt:  observed,
	}, nil
}

// ListDue returns subscriptions due for charging, oldest first
func (u *ChargeUsecase) ListDue(ctx context.Context, limit int) ([]*entities.Subscription, error) {
	return u.subscriptionRepo.ListDue(ctx, u.now(), limit)
}

// classifyTransferError maps a transfer error to a recorded failure reason
func classifyTransferError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return entities.FailReasonTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "revert"):
		return entities.FailReasonReverted
	case strings.Contains(msg, "insufficient"):
		return entities.FailReasonInsufficientFunds
	default:
		return entities.FailReasonTransport
	}
}
