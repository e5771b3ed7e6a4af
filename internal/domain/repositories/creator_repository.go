package repositories

import (
	"context"

	"github.com/google/uuid"
	"zk-tipping.backend/internal/domain/entities"
)

// CreatorRepository defines creator profile data operations
type CreatorRepository interface {
	Create(ctx context.Context, creator *entities.Creator) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Creator, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Creator, error)
	List(ctx context.Context, limit, offset int) ([]*entities.Creator, int, error)
	UpdateProfile(ctx context.Context, creator *entities.Creator) error
	AddLink(ctx context.Context, link *entities.CreatorLink) error
	ListLinks(ctx context.Context, creatorID uuid.UUID) ([]*entities.CreatorLink, error)
}
