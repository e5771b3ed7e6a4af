package repositories

import "context"

// UnitOfWork runs a function within a transaction scope. Repositories pick the
// transaction up from the context.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
