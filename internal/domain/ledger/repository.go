package ledger

import "context"

// JournalEntry is an admitted transaction together with its global admission sequence
type JournalEntry struct {
	AccountID   string
	Transaction Transaction
	Sequence    int64
}

// AccountRepository records which accounts exist
type AccountRepository interface {
	// Ensure registers the account; registering it again is a no-op
	Ensure(ctx context.Context, accountID string) error
	List(ctx context.Context) ([]string, error)
}

// EntryRepository defines ledger entry persistence operations
type EntryRepository interface {
	Append(ctx context.Context, accountID string, txn Transaction, sequence int64) error

	// List returns every entry in sequence order
	List(ctx context.Context) ([]JournalEntry, error)
}
