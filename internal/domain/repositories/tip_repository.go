package repositories

import (
	"context"

	"github.com/google/uuid"
	"zk-tipping.backend/internal/domain/entities"
)

// TipRepository defines the append-only tip ledger
type TipRepository interface {
	Create(ctx context.Context, tip *entities.Tip) error
	GetByTxHash(ctx context.Context, txHash string) (*entities.Tip, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Tip, int, error)
	SumByCreator(ctx context.Context, creatorID uuid.UUID) (string, int64, error)
}

// WithdrawalRepository defines the append-only withdrawal ledger
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *entities.Withdrawal) error
	GetByTxHash(ctx context.Context, txHash string) (*entities.Withdrawal, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]*entities.Withdrawal, int, error)
	SumByCreator(ctx context.Context, creatorID uuid.UUID) (string, error)
}
