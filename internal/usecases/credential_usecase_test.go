package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
)

type credentialFixture struct {
	usecase        *CredentialUsecase
	credentialRepo *MockCredentialRepository
	userRepo       *MockUserRepository
	eventRepo      *MockActivityEventRepository
	verifier       *MockProofVerifier
}

func newCredentialFixture() *credentialFixture {
	f := &credentialFixture{
		credentialRepo: new(MockCredentialRepository),
		userRepo:       new(MockUserRepository),
		eventRepo:      new(MockActivityEventRepository),
		verifier:       new(MockProofVerifier),
	}
	f.usecase = NewCredentialUsecase(f.credentialRepo, f.userRepo, f.eventRepo, f.verifier)
	return f
}

const testIssuer = "zkpassport"

func (f *credentialFixture) expectUser(userID uuid.UUID) {
	f.userRepo.On("GetByID", mock.Anything, userID).
		Return(&entities.User{ID: userID, WalletAddress: "0xwallet"}, nil)
}

func TestRegisterCredential_Success(t *testing.T) {
	f := newCredentialFixture()
	userID := uuid.New()
	f.expectUser(userID)

	f.credentialRepo.On("GetByNullifierHash", mock.Anything, "0xnull1").Return(nil, domainerrors.ErrNotFound)
	f.credentialRepo.On("GetActiveByUserAndIssuer", mock.Anything, userID, testIssuer).Return(nil, domainerrors.ErrNotFound)
	f.credentialRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Credential) bool {
		return c.UserID == userID && c.NullifierHash == "0xnull1" && !c.IsRevoked
	})).Return(nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	credential, err := f.usecase.Register(context.Background(), userID, "0xnull1", testIssuer)

	require.NoError(t, err)
	assert.Equal(t, testIssuer, credential.Issuer)
	f.credentialRepo.AssertExpectations(t)
}

func TestRegisterCredential_ReplaySameBindingReturnsExisting(t *testing.T) {
	f := newCredentialFixture()
	userID := uuid.New()
	f.expectUser(userID)
	existing := &entities.Credential{
		ID:            uuid.New(),
		UserID:        userID,
		NullifierHash: "0xnull1",
		Issuer:        testIssuer,
	}

	f.credentialRepo.On("GetByNullifierHash", mock.Anything, "0xnull1").Return(existing, nil)

	credential, err := f.usecase.Register(context.Background(), userID, "0xnull1", testIssuer)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, credential.ID)
	f.credentialRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterCredential_NullifierBoundToAnotherIdentity(t *testing.T) {
	f := newCredentialFixture()
	userID := uuid.New()
	f.expectUser(userID)
	existing := &entities.Credential{
		ID:            uuid.New(),
		UserID:        uuid.New(), // different user
		NullifierHash: "0xnull1",
		Issuer:        testIssuer,
	}

	f.credentialRepo.On("GetByNullifierHash", mock.Anything, "0xnull1").Return(existing, nil)

	_, err := f.usecase.Register(context.Background(), userID, "0xnull1", testIssuer)

	assert.ErrorIs(t, err, domainerrors.ErrDuplicateNullifier)
}

func TestRegisterCredential_ActiveCredentialFromSameIssuer(t *testing.T) {
	f := newCredentialFixture()
	userID := uuid.New()
	f.expectUser(userID)

	f.credentialRepo.On("GetByNullifierHash", mock.Anything, "0xnull2").Return(nil, domainerrors.ErrNotFound)
	f.credentialRepo.On("GetActiveByUserAndIssuer", mock.Anything, userID, testIssuer).
		Return(&entities.Credential{ID: uuid.New(), UserID: userID, Issuer: testIssuer}, nil)

	_, err := f.usecase.Register(context.Background(), userID, "0xnull2", testIssuer)

	assert.ErrorIs(t, err, domainerrors.ErrAlreadyRegistered)
}

func TestRegisterCredential_RevokedCredentialAllowsReRegistration(t *testing.T) {
	f := newCredentialFixture()
	userID := uuid.New()
	f.expectUser(userID)

	f.credentialRepo.On("GetByNullifierHash", mock.Anything, "0xnull3").Return(nil, domainerrors.ErrNotFound)
	// No active credential: the previous one was revoked.
	f.credentialRepo.On("GetActiveByUserAndIssuer", mock.Anything, userID, testIssuer).Return(nil, domainerrors.ErrNotFound)
	f.credentialRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	_, err := f.usecase.Register(context.Background(), userID, "0xnull3", testIssuer)

	assert.NoError(t, err)
}

func TestVerifyAndRegister(t *testing.T) {
	f := newCredentialFixture()
	userID := uuid.New()
	f.expectUser(userID)

	f.verifier.On("Verify", mock.Anything, "proof-bytes").Return("0xderived", nil)
	f.credentialRepo.On("GetByNullifierHash", mock.Anything, "0xderived").Return(nil, domainerrors.ErrNotFound)
	f.credentialRepo.On("GetActiveByUserAndIssuer", mock.Anything, userID, testIssuer).Return(nil, domainerrors.ErrNotFound)
	f.credentialRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	credential, err := f.usecase.VerifyAndRegister(context.Background(), userID, &entities.VerifyProofInput{
		Proof:  "proof-bytes",
		Issuer: testIssuer,
	})

	require.NoError(t, err)
	assert.Equal(t, "0xderived", credential.NullifierHash)
}

func TestVerifyAndRegister_RejectedProof(t *testing.T) {
	f := newCredentialFixture()
	userID := uuid.New()

	f.verifier.On("Verify", mock.Anything, "bad-proof").Return("", errors.New("proof rejected by verifier"))

	_, err := f.usecase.VerifyAndRegister(context.Background(), userID, &entities.VerifyProofInput{
		Proof:  "bad-proof",
		Issuer: testIssuer,
	})

	assert.Error(t, err)
	f.credentialRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRevoke_Idempotent(t *testing.T) {
	f := newCredentialFixture()
	userID := uuid.New()
	credential := &entities.Credential{
		ID:            uuid.New(),
		UserID:        userID,
		NullifierHash: "0xnull1",
		Issuer:        testIssuer,
	}

	f.credentialRepo.On("GetByNullifierHash", mock.Anything, "0xnull1").Return(credential, nil)
	f.credentialRepo.On("Revoke", mock.Anything, "0xnull1").Return(nil).Once()
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.usecase.Revoke(context.Background(), "0xnull1"))

	// Already revoked: no-op, no second repo call.
	credential.IsRevoked = true
	require.NoError(t, f.usecase.Revoke(context.Background(), "0xnull1"))
	f.credentialRepo.AssertNumberOfCalls(t, "Revoke", 1)
}

func TestRevoke_UnknownNullifier(t *testing.T) {
	f := newCredentialFixture()

	f.credentialRepo.On("GetByNullifierHash", mock.Anything, "0xmissing").Return(nil, domainerrors.ErrNotFound)

	assert.ErrorIs(t, f.usecase.Revoke(context.Background(), "0xmissing"), domainerrors.ErrNotFound)
}

func TestIsEligible(t *testing.T) {
	f := newCredentialFixture()
	userID := uuid.New()

	f.credentialRepo.On("HasActiveByUser", mock.Anything, userID).Return(true, nil)

	eligible, err := f.usecase.IsEligible(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, eligible)
}
