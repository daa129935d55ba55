// Package journal persists the ledger across the two databases: the account
// registry and the interest rules live in PostgreSQL, the ledger entries in
// MongoDB. It also rebuilds an in-memory store from them at startup.
package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/jackc/pgx/v5"
)

// TxRunner runs fn inside a database transaction
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Target is the store being rebuilt by Restore
type Target interface {
	RestoreAccount(accountID string)
	ReplayRule(rule interest.Rule)
	Replay(accountID string, txn ledger.Transaction, sequence int64) error
}

// RestoreStats summarizes a Restore run
type RestoreStats struct {
	Accounts int
	Rules    int
	Entries  int
}

// Journal writes postings and rule changes through to the databases.
// There is no transaction spanning both databases.
type Journal struct {
	logger   *slog.Logger
	tx       TxRunner
	accounts ledger.AccountRepository
	rules    interest.Repository
	entries  ledger.EntryRepository
}

// New creates a journal over the given repositories
func New(
	logger *slog.Logger,
	tx TxRunner,
	accounts ledger.AccountRepository,
	rules interest.Repository,
	entries ledger.EntryRepository,
) *Journal {
	return &Journal{
		logger:   logger,
		tx:       tx,
		accounts: accounts,
		rules:    rules,
		entries:  entries,
	}
}

// AppendTransaction registers the account and stores the entry
func (j *Journal) AppendTransaction(ctx context.Context, accountID string, txn ledger.Transaction, sequence int64) error {
	if err := j.accounts.Ensure(ctx, accountID); err != nil {
		return err
	}
	if err := j.entries.Append(ctx, accountID, txn, sequence); err != nil {
		return err
	}

	j.logger.Debug("Ledger entry journaled",
		"account_id", accountID,
		"transaction_id", txn.ID(),
		"sequence", sequence,
	)
	return nil
}

// SaveRule replaces the rule for its effective date and records it in the history
func (j *Journal) SaveRule(ctx context.Context, rule interest.Rule) error {
	return j.tx.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := j.rules.WithTx(tx)
		if err := repo.Save(ctx, rule); err != nil {
			return err
		}
		return repo.AppendHistory(ctx, rule)
	})
}

// Restore loads accounts, rules and entries into target. Entries are replayed
// in sequence order through the normal admission checks.
func (j *Journal) Restore(ctx context.Context, target Target) (RestoreStats, error) {
	var stats RestoreStats

	accountIDs, err := j.accounts.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("restoring accounts: %w", err)
	}
	for _, id := range accountIDs {
		target.RestoreAccount(id)
	}
	stats.Accounts = len(accountIDs)

	rules, err := j.rules.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("restoring interest rules: %w", err)
	}
	for _, rule := range rules {
		target.ReplayRule(rule)
	}
	stats.Rules = len(rules)

	entries, err := j.entries.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("restoring ledger entries: %w", err)
	}
	for _, entry := range entries {
		if err := target.Replay(entry.AccountID, entry.Transaction, entry.Sequence); err != nil {
			return stats, fmt.Errorf("replaying entry %s of account %s: %w", entry.Transaction.ID(), entry.AccountID, err)
		}
		stats.Entries++
	}

	j.logger.Info("Ledger restored from journal",
		"accounts", stats.Accounts,
		"rules", stats.Rules,
		"entries", stats.Entries,
	)
	return stats, nil
}
