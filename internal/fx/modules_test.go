package fx

import (
	"bytes"
	"df-boss-monitor/internal/config"
	"df-boss-monitor/internal/database"
	"df-boss-monitor/internal/repository"
	"df-boss-monitor/internal/scheduler"
	"df-boss-monitor/internal/server"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestModule_GraphResolves(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Invoke(func(*scheduler.Runner, *server.StatusServer) {}),
	)
	require.NoError(t, err)
}

func newAccountRepo(t *testing.T) *repository.AccountRepository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "accounts.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewAccountRepository(db, zerolog.Nop())
}

func TestProvideAccount_LogsDirectory(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{
		Mode:            config.ModeTrack,
		TrackAccount:    "runner660",
		TrackedAccounts: map[string]string{"tommy660": "14008279", "runner660": "14012933"},
	}

	account, err := ProvideAccount(cfg, newAccountRepo(t), zerolog.New(&buf))
	require.NoError(t, err)

	assert.Equal(t, "runner660", account.Name)
	assert.Equal(t, "14012933", account.ProfileID)
	assert.Contains(t, buf.String(), `"accounts":["runner660","tommy660"]`)
	assert.Contains(t, buf.String(), "account directory loaded")
}

func TestProvideAccount_UnknownAccount(t *testing.T) {
	cfg := &config.Config{
		TrackAccount:    "ghost",
		TrackedAccounts: map[string]string{"tommy660": "14008279"},
	}

	cfg.Mode = config.ModeDetect
	account, err := ProvideAccount(cfg, newAccountRepo(t), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "ghost", account.Name)
	assert.Empty(t, account.ProfileID)

	cfg.Mode = config.ModeTrack
	_, err = ProvideAccount(cfg, newAccountRepo(t), zerolog.Nop())
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}
