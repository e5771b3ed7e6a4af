package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
	"zk-tipping.backend/internal/domain/repositories"
	"zk-tipping.backend/pkg/logger"
)

// CreatorUsecase handles creator registration and profile queries
type CreatorUsecase struct {
	creatorRepo    repositories.CreatorRepository
	userRepo       repositories.UserRepository
	credentialRepo repositories.CredentialRepository
	paymentRepo    repositories.SubscriptionPaymentRepository
	tipRepo        repositories.TipRepository
	withdrawalRepo repositories.WithdrawalRepository
	eventRepo      repositories.ActivityEventRepository
}

// NewCreatorUsecase creates a new creator usecase
func NewCreatorUsecase(
	creatorRepo repositories.CreatorRepository,
	userRepo repositories.UserRepository,
	credentialRepo repositories.CredentialRepository,
	paymentRepo repositories.SubscriptionPaymentRepository,
	tipRepo repositories.TipRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	eventRepo repositories.ActivityEventRepository,
) *CreatorUsecase {
	return &CreatorUsecase{
		creatorRepo:    creatorRepo,
		userRepo:       userRepo,
		credentialRepo: credentialRepo,
		paymentRepo:    paymentRepo,
		tipRepo:        tipRepo,
		withdrawalRepo: withdrawalRepo,
		eventRepo:      eventRepo,
	}
}

// Register creates a creator profile for a user. Verification happens exactly
// once, here: the credential check passing at registration time sets
// IsVerified, and the flag is immutable afterwards.
func (u *CreatorUsecase) Register(ctx context.Context, userID uuid.UUID, input *entities.RegisterCreatorInput) (*entities.Creator, error) {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := u.creatorRepo.GetByUserID(ctx, userID)
	if err != nil && err != domainerrors.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	eligible, err := u.credentialRepo.HasActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domainerrors.ErrSubscriberNotEligible
	}

	creator := &entities.Creator{
		UserID:     userID,
		IsVerified: true,
	}
	if input.DisplayName != "" {
		creator.DisplayName.SetValid(input.DisplayName)
	}
	if input.Bio != "" {
		creator.Bio.SetValid(input.Bio)
	}
	if input.ProfileImageURL != "" {
		creator.ProfileImageURL.SetValid(input.ProfileImageURL)
	}
	if input.VerificationTxHash != "" {
		creator.VerificationTxHash.SetValid(input.VerificationTxHash)
	}

	if err := u.creatorRepo.Create(ctx, creator); err != nil {
		return nil, err
	}

	if err := u.eventRepo.Append(ctx, &entities.ActivityEvent{
		UserID:    &userID,
		EventType: entities.EventTypeCreatorRegistered,
		Metadata:  map[string]interface{}{"creatorId": creator.ID.String()},
	}); err != nil {
		logger.Warn(ctx, "failed to append activity event", zap.Error(err))
	}

	logger.Info(ctx, "creator registered",
		zap.String("creator_id", creator.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return creator, nil
}

// GetByID gets a creator by ID
func (u *CreatorUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.Creator, error) {
	return u.creatorRepo.GetByID(ctx, id)
}

// GetByUserID gets the creator profile owned by a user
func (u *CreatorUsecase) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Creator, error) {
	return u.creatorRepo.GetByUserID(ctx, userID)
}

// List lists creators with pagination
func (u *CreatorUsecase) List(ctx context.Context, limit, offset int) ([]*entities.Creator, int, error) {
	return u.creatorRepo.List(ctx, limit, offset)
}

// IsCreator reports whether a wallet address has a creator profile
func (u *CreatorUsecase) IsCreator(ctx context.Context, walletAddress string) (bool, error) {
	user, err := u.userRepo.GetByWallet(ctx, walletAddress)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	if _, err := u.creatorRepo.GetByUserID(ctx, user.ID); err != nil {
		if err == domainerrors.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsVerified reports whether a wallet address belongs to a verified creator
func (u *CreatorUsecase) IsVerified(ctx context.Context, walletAddress string) (bool, error) {
	user, err := u.userRepo.GetByWallet(ctx, walletAddress)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	creator, err := u.creatorRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return creator.IsVerified, nil
}

// UpdateProfile updates the mutable profile fields of the caller's creator
func (u *CreatorUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.RegisterCreatorInput) (*entities.Creator, error) {
	creator, err := u.creatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	creator.DisplayName = null.NewString(input.DisplayName, input.DisplayName != "")
	creator.Bio = null.NewString(input.Bio, input.Bio != "")
	creator.ProfileImageURL = null.NewString(input.ProfileImageURL, input.ProfileImageURL != "")

	if err := u.creatorRepo.UpdateProfile(ctx, creator); err != nil {
		return nil, err
	}
	return creator, nil
}

// AddLink attaches an external profile link to the caller's creator
func (u *CreatorUsecase) AddLink(ctx context.Context, userID uuid.UUID, input *entities.AddCreatorLinkInput) (*entities.CreatorLink, error) {
	creator, err := u.creatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	link := &entities.CreatorLink{
		CreatorID: creator.ID,
		Platform:  input.Platform,
		URL:       input.URL,
	}
	if err := u.creatorRepo.AddLink(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// ListLinks lists a creator's profile links
func (u *CreatorUsecase) ListLinks(ctx context.Context, creatorID uuid.UUID) ([]*entities.CreatorLink, error) {
	if _, err := u.creatorRepo.GetByID(ctx, creatorID); err != nil {
		return nil, err
	}
	return u.creatorRepo.ListLinks(ctx, creatorID)
}

// GetEarnings aggregates a creator's earnings across subscription payments,
// tips and withdrawals
func (u *CreatorUsecase) GetEarnings(ctx context.Context, creatorID uuid.UUID) (*entities.CreatorEarnings, error) {
	if _, err := u.creatorRepo.GetByID(ctx, creatorID); err != nil {
		return nil, err
	}

	subscriptionVolume, paymentCount, err := u.paymentRepo.SumSuccessfulByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	tipVolume, tipCount, err := u.tipRepo.SumByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	withdrawnVolume, err := u.withdrawalRepo.SumByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	return &entities.CreatorEarnings{
		CreatorID:          creatorID,
		SubscriptionVolume: subscriptionVolume,
		TipVolume:          tipVolume,
		WithdrawnVolume:    withdrawnVolume,
		PaymentCount:       paymentCount,
		TipCount:           tipCount,
	}, nil
}
