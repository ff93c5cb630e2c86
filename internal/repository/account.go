package repository

import (
	"context"
	"database/sql"
	"df-boss-monitor/internal/domain"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrAccountNotFound = errors.New("account not found")

const (
	upsertAccountSQL = `
INSERT INTO accounts (id, name, profile_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    profile_id = excluded.profile_id,
    updated_at = excluded.updated_at`
	getAccountByNameSQL = `SELECT id, name, profile_id, created_at, updated_at FROM accounts WHERE name = ?`
	listAccountsSQL     = `SELECT id, name, profile_id, created_at, updated_at FROM accounts ORDER BY name`
)

// AccountRepository is the directory of accounts that tracking mode can follow.
type AccountRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAccountRepository(sqlDB *sql.DB, logger zerolog.Logger) *AccountRepository {
	return &AccountRepository{db: sqlDB, logger: logger}
}

// Seed upserts name -> profile id pairs in one transaction. Existing rows keep their id.
func (r *AccountRepository) Seed(ctx context.Context, accounts map[string]string) error {
	if len(accounts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, name := range slices.Sorted(maps.Keys(accounts)) {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		if _, err := tx.ExecContext(ctx, upsertAccountSQL, id, name, accounts[name], now, now); err != nil {
			return fmt.Errorf("failed to upsert account %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info().Int("count", len(accounts)).Msg("accounts seeded")
	return nil
}

func (r *AccountRepository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	var a domain.Account
	err := r.db.QueryRowContext(ctx, getAccountByNameSQL, name).
		Scan(&a.ID, &a.Name, &a.ProfileID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", name, err)
	}
	return &a, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, listAccountsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.ProfileID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
