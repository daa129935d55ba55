package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
)

const (
	// LedgerCollectionName is the name of the ledger collection in MongoDB
	LedgerCollectionName = "ledger_entries"
)

// Entry is one journaled transaction as stored in MongoDB
type Entry struct {
	AccountID     string    `bson:"account_id"`
	TransactionID string    `bson:"txn_id"`
	Date          string    `bson:"date"` // yyyyMMdd
	Kind          string    `bson:"kind"`
	Amount        int64     `bson:"amount"` // cents
	Sequence      int64     `bson:"sequence"`
	RecordedAt    time.Time `bson:"recorded_at"`
}

// Transaction rebuilds the validated ledger transaction
func (e Entry) Transaction() (ledger.Transaction, error) {
	date, err := shared.ParseDate(e.Date)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return ledger.NewTransaction(date, e.TransactionID, shared.TransactionType(e.Kind), ledger.Amount(e.Amount))
}

// entryCollection is the subset of *mongo.Collection the repository uses
type entryCollection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// LedgerRepository implements the ledger.EntryRepository interface for MongoDB
type LedgerRepository struct {
	collection entryCollection
	logger     *slog.Logger
	now        func() time.Time
}

// NewLedgerRepository creates a new MongoDB ledger repository
func NewLedgerRepository(logger *slog.Logger, db *mongo.Database) ledger.EntryRepository {
	return newLedgerRepository(logger, db.Collection(LedgerCollectionName))
}

func newLedgerRepository(logger *slog.Logger, collection entryCollection) *LedgerRepository {
	return &LedgerRepository{
		collection: collection,
		logger:     logger,
		now:        time.Now,
	}
}

// EnsureIndexes creates the unique (account_id, txn_id) index and the sequence index
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(LedgerCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "txn_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "sequence", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create ledger entry indexes: %w", err)
	}
	return nil
}

// Append stores one admitted transaction
func (r *LedgerRepository) Append(ctx context.Context, accountID string, txn ledger.Transaction, sequence int64) error {
	entry := Entry{
		AccountID:     accountID,
		TransactionID: txn.ID(),
		Date:          shared.FormatDate(txn.Date()),
		Kind:          string(txn.Kind()),
		Amount:        int64(txn.Amount()),
		Sequence:      sequence,
		RecordedAt:    r.now().UTC(),
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		r.logger.Error("Failed to create ledger entry",
			"account_id", accountID,
			"transaction_id", txn.ID(),
			"error", err)
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

// List returns every journaled entry in sequence order
func (r *LedgerRepository) List(ctx context.Context) ([]ledger.JournalEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		r.logger.Error("Failed to get ledger entries", "error", err)
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode ledger entries", "error", err)
		return nil, fmt.Errorf("failed to decode ledger entries: %w", err)
	}

	journal := make([]ledger.JournalEntry, 0, len(entries))
	for _, entry := range entries {
		txn, err := entry.Transaction()
		if err != nil {
			return nil, fmt.Errorf("invalid ledger entry %s/%s: %w", entry.AccountID, entry.TransactionID, err)
		}
		journal = append(journal, ledger.JournalEntry{
			AccountID:   entry.AccountID,
			Transaction: txn,
			Sequence:    entry.Sequence,
		})
	}
	return journal, nil
}
