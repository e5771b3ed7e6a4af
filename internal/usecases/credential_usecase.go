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

// ProofVerifier verifies an opaque ZK proof and yields the nullifier hash.
// The proof system itself is external; only the verdict matters here.
type ProofVerifier interface {
	Verify(ctx context.Context, proof string) (string, error)
}

// CredentialUsecase is the credential registry: it owns credential state
// exclusively and never touches subscriptions.
type CredentialUsecase struct {
	credentialRepo repositories.CredentialRepository
	userRepo       repositories.UserRepository
	eventRepo      repositories.ActivityEventRepository
	verifier       ProofVerifier

	now func() time.Time
}

// NewCredentialUsecase creates a new credential usecase
func NewCredentialUsecase(
	credentialRepo repositories.CredentialRepository,
	userRepo repositories.UserRepository,
	eventRepo repositories.ActivityEventRepository,
	verifier ProofVerifier,
) *CredentialUsecase {
	return &CredentialUsecase{
		credentialRepo: credentialRepo,
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		verifier:       verifier,
		now:            time.Now,
	}
}

// VerifyAndRegister submits a proof to the external verifier and registers the
// resulting credential on success.
func (u *CredentialUsecase) VerifyAndRegister(ctx context.Context, userID uuid.UUID, input *entities.VerifyProofInput) (*entities.Credential, error) {
	nullifierHash, err := u.verifier.Verify(ctx, input.Proof)
	if err != nil {
		logger.Warn(ctx, "proof verification failed", zap.Error(err))
		return nil, domainerrors.BadRequest("proof verification failed")
	}
	return u.Register(ctx, userID, nullifierHash, input.Issuer)
}

// Register binds a verified nullifier to a user. A nullifier binds to at most
// one identity ever: replaying the identical binding returns the stored
// credential, any other reuse is rejected with ErrDuplicateNullifier. A user
// holding a non-revoked credential from the same issuer gets
// ErrAlreadyRegistered.
func (u *CredentialUsecase) Register(ctx context.Context, userID uuid.UUID, nullifierHash, issuer string) (*entities.Credential, error) {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := u.credentialRepo.GetByNullifierHash(ctx, nullifierHash)
	if err != nil && err != domainerrors.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		if existing.UserID == userID && existing.Issuer == issuer {
			// Replayed registration of the same binding.
			return existing, nil
		}
		return nil, domainerrors.ErrDuplicateNullifier
	}

	active, err := u.credentialRepo.GetActiveByUserAndIssuer(ctx, userID, issuer)
	if err != nil && err != domainerrors.ErrNotFound {
		return nil, err
	}
	if active != nil {
		return nil, domainerrors.ErrAlreadyRegistered
	}

	credential := &entities.Credential{
		UserID:        userID,
		NullifierHash: nullifierHash,
		Issuer:        issuer,
		IsRevoked:     false,
		VerifiedAt:    u.now(),
	}
	if err := u.credentialRepo.Create(ctx, credential); err != nil {
		return nil, err
	}

	u.appendEvent(ctx, &userID, entities.EventTypeCredentialIssued, map[string]interface{}{
		"issuer": issuer,
	})

	logger.Info(ctx, "credential registered",
		zap.String("user_id", userID.String()),
		zap.String("issuer", issuer),
	)
	return credential, nil
}

// Revoke flips a credential's revocation flag. Revoking twice is a no-op.
func (u *CredentialUsecase) Revoke(ctx context.Context, nullifierHash string) error {
	credential, err := u.credentialRepo.GetByNullifierHash(ctx, nullifierHash)
	if err != nil {
		return err
	}
	if credential.IsRevoked {
		return nil
	}

	if err := u.credentialRepo.Revoke(ctx, nullifierHash); err != nil {
		return err
	}

	u.appendEvent(ctx, &credential.UserID, entities.EventTypeCredentialRevoked, map[string]interface{}{
		"issuer": credential.Issuer,
	})
	return nil
}

// IsEligible reports whether a user holds at least one non-revoked credential
func (u *CredentialUsecase) IsEligible(ctx context.Context, userID uuid.UUID) (bool, error) {
	return u.credentialRepo.HasActiveByUser(ctx, userID)
}

// ListByUser lists a user's credentials, revoked ones included
func (u *CredentialUsecase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Credential, error) {
	return u.credentialRepo.ListByUser(ctx, userID)
}

func (u *CredentialUsecase) appendEvent(ctx context.Context, userID *uuid.UUID, eventType string, metadata map[string]interface{}) {
	if err := u.eventRepo.Append(ctx, &entities.ActivityEvent{
		UserID:    userID,
		EventType: eventType,
		Metadata:  metadata,
	}); err != nil {
		logger.Warn(ctx, "failed to append activity event", zap.Error(err), zap.String("event_type", eventType))
	}
}
