package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
	"zk-tipping.backend/pkg/logger"
)

// ChargeExecutor is the charge operation the keeper drives
type ChargeExecutor interface {
	ListDue(ctx context.Context, limit int) ([]*entities.Subscription, error)
	ChargeSubscription(ctx context.Context, subscriptionID uuid.UUID, executorAddress string) (*entities.ChargeOutcome, error)
}

// ChargeKeeperJob periodically sweeps due subscriptions and charges them with
// the keeper as executor. Charging is permissionless, so the keeper racing an
// external executor is safe: the loser of each cycle gets ErrNotDue.
type ChargeKeeperJob struct {
	executor      ChargeExecutor
	keeperAddress string
	interval      time.Duration
	batchSize     int
	stopChan      chan struct{}
}

// NewChargeKeeperJob creates a new charge keeper job
func NewChargeKeeperJob(executor ChargeExecutor, keeperAddress string, interval time.Duration, batchSize int) *ChargeKeeperJob {
	return &ChargeKeeperJob{
		executor:      executor,
		keeperAddress: keeperAddress,
		interval:      interval,
		batchSize:     batchSize,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the sweep loop
func (j *ChargeKeeperJob) Start() {
	go j.run()
	logger.Info(context.Background(), "charge keeper job started",
		zap.Duration("interval", j.interval),
		zap.Int("batch_size", j.batchSize),
	)
}

// Stop stops the sweep loop
func (j *ChargeKeeperJob) Stop() {
	close(j.stopChan)
	logger.Info(context.Background(), "charge keeper job stopped")
}

func (j *ChargeKeeperJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *ChargeKeeperJob) sweep() {
	ctx := context.Background()

	due, err := j.executor.ListDue(ctx, j.batchSize)
	if err != nil {
		logger.Error(ctx, "charge keeper failed to list due subscriptions", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	var charged, failed, skipped int
	for _, subscription := range due {
		outcome, err := j.executor.ChargeSubscription(ctx, subscription.ID, j.keeperAddress)
		if err != nil {
			// Lost the cycle to another executor, cancelled mid-sweep,
			// or a revoked credential. All expected, none retryable here.
			skipped++
			if err != domainerrors.ErrNotDue && err != domainerrors.ErrNotActive && err != domainerrors.ErrSubscriberNotEligible {
				logger.Error(ctx, "charge keeper attempt errored",
					zap.String("subscription_id", subscription.ID.String()),
					zap.Error(err),
				)
			}
			continue
		}
		if outcome.Status == entities.PaymentStatusSuccess {
			charged++
		} else {
			failed++
		}
	}

	logger.Info(ctx, "charge keeper sweep finished",
		zap.Int("due", len(due)),
		zap.Int("charged", charged),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped),
	)
}
