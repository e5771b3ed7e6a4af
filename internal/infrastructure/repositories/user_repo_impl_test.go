package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "zk-tipping.backend/internal/domain/errors"
)

func TestUserRepo_GetOrCreateByWallet(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	wallet := "0xAbCdEf1234567890abcdef1234567890ABCDEF12"

	user, err := repo.GetOrCreateByWallet(ctx, wallet)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)
	// Addresses are stored lowercased.
	assert.Equal(t, "0xabcdef1234567890abcdef1234567890abcdef12", user.WalletAddress)

	// Second call with different casing resolves to the same row.
	again, err := repo.GetOrCreateByWallet(ctx, "0XABCDEF1234567890ABCDEF1234567890ABCDEF12")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestUserRepo_GetByWallet(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.GetOrCreateByWallet(ctx, "0xwallet1")
	require.NoError(t, err)

	got, err := repo.GetByWallet(ctx, "  0xWALLET1  ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByWallet(ctx, "0xunknown")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepo_GetByID(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.GetOrCreateByWallet(ctx, "0xwallet1")
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.WalletAddress, got.WalletAddress)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
