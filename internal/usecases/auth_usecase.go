package usecases

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
	"zk-tipping.backend/internal/domain/repositories"
	"zk-tipping.backend/pkg/jwt"
	"zk-tipping.backend/pkg/logger"
)

var walletAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// AuthUsecase handles wallet-session login. Accounts are keyed by wallet
// address and created on first login.
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(userRepo repositories.UserRepository, jwtService *jwt.JWTService) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// WalletLogin resolves or creates the user for a wallet address and issues a
// token pair.
func (u *AuthUsecase) WalletLogin(ctx context.Context, input *entities.WalletLoginInput) (*entities.WalletLoginResponse, error) {
	if !walletAddressPattern.MatchString(input.WalletAddress) {
		return nil, domainerrors.BadRequest("invalid wallet address")
	}

	user, err := u.userRepo.GetOrCreateByWallet(ctx, input.WalletAddress)
	if err != nil {
		return nil, err
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.WalletAddress)
	if err != nil {
		return nil, domainerrors.InternalError("failed to generate tokens", err)
	}

	logger.Info(ctx, "wallet login", zap.String("user_id", user.ID.String()))
	return &entities.WalletLoginResponse{
		UserID:        user.ID,
		WalletAddress: user.WalletAddress,
		AccessToken:   tokens.AccessToken,
		RefreshToken:  tokens.RefreshToken,
	}, nil
}

// RefreshToken validates a refresh token and issues a fresh token pair
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.WalletAddress)
	if err != nil {
		return nil, domainerrors.InternalError("failed to generate tokens", err)
	}
	return tokens, nil
}

// GetProfile returns the user record for an authenticated session
func (u *AuthUsecase) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid user ID")
	}
	return u.userRepo.GetByID(ctx, id)
}
