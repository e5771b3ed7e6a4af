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
)

// TipUsecase records one-off tips and creator payout requests. Both ledgers
// are append-only and keyed by tx hash; replaying a known hash with the same
// facts is a no-op.
type TipUsecase struct {
	tipRepo        repositories.TipRepository
	withdrawalRepo repositories.WithdrawalRepository
	creatorRepo    repositories.CreatorRepository
	credentialRepo repositories.CredentialRepository
	eventRepo      repositories.ActivityEventRepository

	now func() time.Time
}

// NewTipUsecase creates a new tip usecase
func NewTipUsecase(
	tipRepo repositories.TipRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	creatorRepo repositories.CreatorRepository,
	credentialRepo repositories.CredentialRepository,
	eventRepo repositories.ActivityEventRepository,
) *TipUsecase {
	return &TipUsecase{
		tipRepo:        tipRepo,
		withdrawalRepo: withdrawalRepo,
		creatorRepo:    creatorRepo,
		credentialRepo: credentialRepo,
		eventRepo:      eventRepo,
		now:            time.Now,
	}
}

// RecordTip appends a tip receipt to the ledger
func (u *TipUsecase) RecordTip(ctx context.Context, fromUserID uuid.UUID, input *entities.RecordTipInput) (*entities.Tip, error) {
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

	eligible, err := u.credentialRepo.HasActiveByUser(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domainerrors.ErrSubscriberNotEligible
	}

	tip := &entities.Tip{
		FromUserID:   fromUserID,
		CreatorID:    creatorID,
		Amount:       input.Amount,
		TokenAddress: input.TokenAddress,
		TxHash:       input.TxHash,
	}

	if existing, err := u.tipRepo.GetByTxHash(ctx, input.TxHash); err == nil {
		return u.matchTipReplay(existing, tip)
	} else if err != domainerrors.ErrNotFound {
		return nil, err
	}

	if err := u.tipRepo.Create(ctx, tip); err != nil {
		if err == domainerrors.ErrDuplicateTx {
			existing, getErr := u.tipRepo.GetByTxHash(ctx, input.TxHash)
			if getErr != nil {
				return nil, domainerrors.ErrDuplicateTx
			}
			return u.matchTipReplay(existing, tip)
		}
		return nil, err
	}

	metrics.TipsRecorded.Inc()
	u.appendEvent(ctx, fromUserID, entities.EventTypeTipRecorded, map[string]interface{}{
		"creatorId": creatorID.String(),
		"txHash":    input.TxHash,
	})

	logger.Info(ctx, "tip recorded",
		zap.String("creator_id", creatorID.String()),
		zap.String("tx_hash", input.TxHash),
	)
	return tip, nil
}

// RequestWithdrawal appends a payout request for the caller's creator profile
func (u *TipUsecase) RequestWithdrawal(ctx context.Context, userID uuid.UUID, input *entities.RequestWithdrawalInput) (*entities.Withdrawal, error) {
	creator, err := u.creatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	withdrawal := &entities.Withdrawal{
		CreatorID:    creator.ID,
		Amount:       input.Amount,
		TokenAddress: input.TokenAddress,
		TxHash:       input.TxHash,
		RequestedAt:  u.now(),
	}

	if existing, err := u.withdrawalRepo.GetByTxHash(ctx, input.TxHash); err == nil {
		return u.matchWithdrawalReplay(existing, withdrawal)
	} else if err != domainerrors.ErrNotFound {
		return nil, err
	}

	if err := u.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		if err == domainerrors.ErrDuplicateTx {
			existing, getErr := u.withdrawalRepo.GetByTxHash(ctx, input.TxHash)
			if getErr != nil {
				return nil, domainerrors.ErrDuplicateTx
			}
			return u.matchWithdrawalReplay(existing, withdrawal)
		}
		return nil, err
	}

	u.appendEvent(ctx, userID, entities.EventTypeWithdrawalRequested, map[string]interface{}{
		"creatorId": creator.ID.String(),
		"txHash":    input.TxHash,
	})
	return withdrawal, nil
}

// ListByCreator lists tips received by a creator
func (u *TipUsecase) ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Tip, int, error) {
	if _, err := u.creatorRepo.GetByID(ctx, creatorID); err != nil {
		return nil, 0, err
	}
	return u.tipRepo.ListByCreator(ctx, creatorID, limit, offset)
}

// ListWithdrawals lists payout requests made by a creator
func (u *TipUsecase) ListWithdrawals(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Withdrawal, int, error) {
	if _, err := u.creatorRepo.GetByID(ctx, creatorID); err != nil {
		return nil, 0, err
	}
	return u.withdrawalRepo.ListByCreator(ctx, creatorID, limit, offset)
}

func (u *TipUsecase) matchTipReplay(existing, attempted *entities.Tip) (*entities.Tip, error) {
	if existing.FromUserID == attempted.FromUserID &&
		existing.CreatorID == attempted.CreatorID &&
		existing.Amount == attempted.Amount {
		return existing, nil
	}
	return nil, domainerrors.ErrDuplicateTx
}

func (u *TipUsecase) matchWithdrawalReplay(existing, attempted *entities.Withdrawal) (*entities.Withdrawal, error) {
	if existing.CreatorID == attempted.CreatorID && existing.Amount == attempted.Amount {
		return existing, nil
	}
	return nil, domainerrors.ErrDuplicateTx
}

func (u *TipUsecase) appendEvent(ctx context.Context, userID uuid.UUID, eventType string, metadata map[string]interface{}) {
	if err := u.eventRepo.Append(ctx, &entities.ActivityEvent{
		UserID:    &userID,
		EventType: eventType,
		Metadata:  metadata,
	}); err != nil {
		logger.Warn(ctx, "failed to append activity event", zap.Error(err), zap.String("event_type", eventType))
	}
}
