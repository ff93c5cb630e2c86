package repository

import (
	"context"
	"df-boss-monitor/internal/database"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *AccountRepository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAccountRepository(db, zerolog.Nop())
}

func TestAccountRepository_SeedAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Seed(ctx, map[string]string{"tommy660": "14008279", "runner660": "14012933"}))

	a, err := repo.GetByName(ctx, "tommy660")
	require.NoError(t, err)
	assert.Equal(t, "14008279", a.ProfileID)
	assert.Len(t, a.ID, 21)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "runner660", all[0].Name)
}

func TestAccountRepository_SeedKeepsID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Seed(ctx, map[string]string{"tommy660": "1"}))
	before, err := repo.GetByName(ctx, "tommy660")
	require.NoError(t, err)

	require.NoError(t, repo.Seed(ctx, map[string]string{"tommy660": "2"}))
	after, err := repo.GetByName(ctx, "tommy660")
	require.NoError(t, err)

	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "2", after.ProfileID)
}

func TestAccountRepository_NotFound(t *testing.T) {
	_, err := newTestRepo(t).GetByName(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
