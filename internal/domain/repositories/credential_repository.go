package repositories

import (
	"context"

	"github.com/google/uuid"
	"zk-tipping.backend/internal/domain/entities"
)

// CredentialRepository defines credential registry data operations.
// Credentials are never deleted; revocation is the only mutation.
type CredentialRepository interface {
	Create(ctx context.Context, credential *entities.Credential) error
	GetByNullifierHash(ctx context.Context, nullifierHash string) (*entities.Credential, error)
	GetActiveByUserAndIssuer(ctx context.Context, userID uuid.UUID, issuer string) (*entities.Credential, error)
	HasActiveByUser(ctx context.Context, userID uuid.UUID) (bool, error)
	Revoke(ctx context.Context, nullifierHash string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Credential, error)
}
