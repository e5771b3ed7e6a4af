package usecases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
)

type creatorFixture struct {
	usecase        *CreatorUsecase
	creatorRepo    *MockCreatorRepository
	userRepo       *MockUserRepository
	credentialRepo *MockCredentialRepository
	paymentRepo    *MockSubscriptionPaymentRepository
	tipRepo        *MockTipRepository
	withdrawalRepo *MockWithdrawalRepository
	eventRepo      *MockActivityEventRepository
}

func newCreatorFixture() *creatorFixture {
	f := &creatorFixture{
		creatorRepo:    new(MockCreatorRepository),
		userRepo:       new(MockUserRepository),
		credentialRepo: new(MockCredentialRepository),
		paymentRepo:    new(MockSubscriptionPaymentRepository),
		tipRepo:        new(MockTipRepository),
		withdrawalRepo: new(MockWithdrawalRepository),
		eventRepo:      new(MockActivityEventRepository),
	}
	f.usecase = NewCreatorUsecase(f.creatorRepo, f.userRepo, f.credentialRepo, f.paymentRepo, f.tipRepo, f.withdrawalRepo, f.eventRepo)
	return f
}

func TestRegisterCreator_VerifiedOnRegistration(t *testing.T) {
	f := newCreatorFixture()
	userID := uuid.New()

	f.userRepo.On("GetByID", mock.Anything, userID).Return(&entities.User{ID: userID}, nil)
	f.creatorRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domainerrors.ErrNotFound)
	f.credentialRepo.On("HasActiveByUser", mock.Anything, userID).Return(true, nil)
	f.creatorRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Creator) bool {
		return c.UserID == userID && c.IsVerified
	})).Return(nil)
	f.eventRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	creator, err := f.usecase.Register(context.Background(), userID, &entities.RegisterCreatorInput{
		DisplayName: "alice",
	})

	require.NoError(t, err)
	assert.True(t, creator.IsVerified)
	assert.Equal(t, "alice", creator.DisplayName.String)
}

func TestRegisterCreator_RequiresCredential(t *testing.T) {
	f := newCreatorFixture()
	userID := uuid.New()

	f.userRepo.On("GetByID", mock.Anything, userID).Return(&entities.User{ID: userID}, nil)
	f.creatorRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domainerrors.ErrNotFound)
	f.credentialRepo.On("HasActiveByUser", mock.Anything, userID).Return(false, nil)

	_, err := f.usecase.Register(context.Background(), userID, &entities.RegisterCreatorInput{})

	assert.ErrorIs(t, err, domainerrors.ErrSubscriberNotEligible)
	f.creatorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterCreator_ExistingProfileReturned(t *testing.T) {
	f := newCreatorFixture()
	userID := uuid.New()
	existing := &entities.Creator{ID: uuid.New(), UserID: userID, IsVerified: true}

	f.userRepo.On("GetByID", mock.Anything, userID).Return(&entities.User{ID: userID}, nil)
	f.creatorRepo.On("GetByUserID", mock.Anything, userID).Return(existing, nil)

	creator, err := f.usecase.Register(context.Background(), userID, &entities.RegisterCreatorInput{})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, creator.ID)
	f.creatorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIsCreatorAndIsVerified_UnknownWallet(t *testing.T) {
	f := newCreatorFixture()

	f.userRepo.On("GetByWallet", mock.Anything, "0xunknown").Return(nil, domainerrors.ErrNotFound)

	isCreator, err := f.usecase.IsCreator(context.Background(), "0xunknown")
	require.NoError(t, err)
	assert.False(t, isCreator)

	isVerified, err := f.usecase.IsVerified(context.Background(), "0xunknown")
	require.NoError(t, err)
	assert.False(t, isVerified)
}

func TestIsVerified_KnownCreator(t *testing.T) {
	f := newCreatorFixture()
	user := &entities.User{ID: uuid.New(), WalletAddress: "0xknown"}
	creator := &entities.Creator{ID: uuid.New(), UserID: user.ID, IsVerified: true}

	f.userRepo.On("GetByWallet", mock.Anything, "0xknown").Return(user, nil)
	f.creatorRepo.On("GetByUserID", mock.Anything, user.ID).Return(creator, nil)

	isVerified, err := f.usecase.IsVerified(context.Background(), "0xknown")
	require.NoError(t, err)
	assert.True(t, isVerified)
}

func TestGetEarnings(t *testing.T) {
	f := newCreatorFixture()
	creator := verifiedCreator()

	f.creatorRepo.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)
	f.paymentRepo.On("SumSuccessfulByCreator", mock.Anything, creator.ID).Return("3000", int64(3), nil)
	f.tipRepo.On("SumByCreator", mock.Anything, creator.ID).Return("700", int64(2), nil)
	f.withdrawalRepo.On("SumByCreator", mock.Anything, creator.ID).Return("1000", nil)

	earnings, err := f.usecase.GetEarnings(context.Background(), creator.ID)

	require.NoError(t, err)
	assert.Equal(t, "3000", earnings.SubscriptionVolume)
	assert.Equal(t, "700", earnings.TipVolume)
	assert.Equal(t, "1000", earnings.WithdrawnVolume)
	assert.Equal(t, int64(3), earnings.PaymentCount)
	assert.Equal(t, int64(2), earnings.TipCount)
}

func TestAddLink(t *testing.T) {
	f := newCreatorFixture()
	userID := uuid.New()
	creator := &entities.Creator{ID: uuid.New(), UserID: userID, IsVerified: true}

	f.creatorRepo.On("GetByUserID", mock.Anything, userID).Return(creator, nil)
	f.creatorRepo.On("AddLink", mock.Anything, mock.MatchedBy(func(l *entities.CreatorLink) bool {
		return l.CreatorID == creator.ID && l.Platform == "twitter"
	})).Return(nil)

	link, err := f.usecase.AddLink(context.Background(), userID, &entities.AddCreatorLinkInput{
		Platform: "twitter",
		URL:      "https://twitter.com/alice",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://twitter.com/alice", link.URL)
}
