package repositories

import (
	"context"

	"github.com/google/uuid"
	"zk-tipping.backend/internal/domain/entities"
)

// UserRepository defines wallet-identity data operations
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByWallet(ctx context.Context, walletAddress string) (*entities.User, error)
	GetOrCreateByWallet(ctx context.Context, walletAddress string) (*entities.User, error)
}
