// Package postgres provides PostgreSQL implementations of the domain repositories.
// It keeps the account registry and the interest rule set of the ledger.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/platform/persistence"
)

// AccountRepository implements the ledger.AccountRepository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
	now     func() time.Time
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.AccountRepository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
		now:     time.Now,
	}
}

// Ensure stores the account unless it already exists
func (r *AccountRepository) Ensure(ctx context.Context, accountID string) error {
	query := `
		INSERT INTO accounts (id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.querier.Exec(ctx, query, accountID, r.now().UTC()); err != nil {
		r.logger.Error("Failed to create account", "account_id", accountID, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// List returns every account id in lexical order
func (r *AccountRepository) List(ctx context.Context) ([]string, error) {
	query := `
		SELECT id
		FROM accounts
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return ids, nil
}
