package journal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/interest-ledger/internal/platform/persistence"
	"github.com/interest-ledger/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Ensure(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Append(ctx context.Context, accountID string, txn ledger.Transaction, sequence int64) error {
	args := m.Called(ctx, accountID, txn, sequence)
	return args.Error(0)
}

func (m *MockEntryRepository) List(ctx context.Context) ([]ledger.JournalEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.JournalEntry), args.Error(1)
}

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) Save(ctx context.Context, rule interest.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) AppendHistory(ctx context.Context, rule interest.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) List(ctx context.Context) ([]interest.Rule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interest.Rule), args.Error(1)
}

func (m *MockRuleRepository) WithTx(pgx.Tx) interest.Repository {
	return m
}

type fixture struct {
	journal  *Journal
	pool     pgxmock.PgxPoolIface
	accounts *MockAccountRepository
	rules    *MockRuleRepository
	entries  *MockEntryRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	f := &fixture{
		pool:     pool,
		accounts: new(MockAccountRepository),
		rules:    new(MockRuleRepository),
		entries:  new(MockEntryRepository),
	}
	f.journal = New(logger, persistence.NewPostgresDBWithPool(logger, pool), f.accounts, f.rules, f.entries)
	return f
}

func date(y int, m int, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func txn(t *testing.T, d civil.Date, id string, kind shared.TransactionType, amount ledger.Amount) ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(d, id, kind, amount)
	require.NoError(t, err)
	return tx
}

func rule(t *testing.T, d civil.Date, id, rate string) interest.Rule {
	t.Helper()
	r, err := interest.NewRule(d, id, decimal.RequireFromString(rate))
	require.NoError(t, err)
	return r
}

func TestJournal_AppendTransaction(t *testing.T) {
	ctx := context.Background()
	deposit := txn(t, date(2023, 6, 1), "20230601-01", shared.TransactionTypeDeposit, 15000)

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("Ensure", ctx, "AC001").Return(nil)
		f.entries.On("Append", ctx, "AC001", deposit, int64(3)).Return(nil)

		assert.NoError(t, f.journal.AppendTransaction(ctx, "AC001", deposit, 3))
		f.accounts.AssertExpectations(t)
		f.entries.AssertExpectations(t)
	})

	t.Run("AccountError", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("Ensure", ctx, "AC001").Return(errors.New("db error"))

		assert.EqualError(t, f.journal.AppendTransaction(ctx, "AC001", deposit, 3), "db error")
		f.entries.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EntryError", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("Ensure", ctx, "AC001").Return(nil)
		f.entries.On("Append", ctx, "AC001", deposit, int64(3)).Return(errors.New("mongo down"))

		assert.EqualError(t, f.journal.AppendTransaction(ctx, "AC001", deposit, 3), "mongo down")
	})
}

func TestJournal_SaveRule(t *testing.T) {
	ctx := context.Background()
	r := rule(t, date(2023, 6, 15), "RULE03", "2.20")

	t.Run("CommitsRuleAndHistory", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectBegin()
		f.pool.ExpectCommit()
		f.rules.On("Save", ctx, r).Return(nil)
		f.rules.On("AppendHistory", ctx, r).Return(nil)

		assert.NoError(t, f.journal.SaveRule(ctx, r))
		f.rules.AssertExpectations(t)
		assert.NoError(t, f.pool.ExpectationsWereMet())
	})

	t.Run("RollsBackOnHistoryFailure", func(t *testing.T) {
		f := newFixture(t)
		f.pool.ExpectBegin()
		f.pool.ExpectRollback()
		f.rules.On("Save", ctx, r).Return(nil)
		f.rules.On("AppendHistory", ctx, r).Return(errors.New("db error"))

		assert.EqualError(t, f.journal.SaveRule(ctx, r), "db error")
		assert.NoError(t, f.pool.ExpectationsWereMet())
	})
}

func TestJournal_Restore(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	rules := []interest.Rule{
		rule(t, date(2023, 1, 1), "RULE01", "1.95"),
		rule(t, date(2023, 5, 20), "RULE02", "1.90"),
		rule(t, date(2023, 6, 15), "RULE03", "2.20"),
	}
	entries := []ledger.JournalEntry{
		{AccountID: "AC001", Transaction: txn(t, date(2023, 5, 5), "20230505-01", shared.TransactionTypeDeposit, 10000), Sequence: 1},
		{AccountID: "AC001", Transaction: txn(t, date(2023, 6, 1), "20230601-01", shared.TransactionTypeDeposit, 15000), Sequence: 2},
		{AccountID: "AC001", Transaction: txn(t, date(2023, 6, 26), "20230626-01", shared.TransactionTypeWithdrawal, 2000), Sequence: 3},
		{AccountID: "AC001", Transaction: txn(t, date(2023, 6, 26), "20230626-02", shared.TransactionTypeWithdrawal, 10000), Sequence: 4},
	}

	t.Run("RebuildsStore", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("List", ctx).Return([]string{"AC001", "AC002"}, nil)
		f.rules.On("List", ctx).Return(rules, nil)
		f.entries.On("List", ctx).Return(entries, nil)

		target := store.NewLedgerStore(logger, nil)
		stats, err := f.journal.Restore(ctx, target)
		require.NoError(t, err)
		assert.Equal(t, RestoreStats{Accounts: 2, Rules: 3, Entries: 4}, stats)

		assert.Equal(t, []string{"AC001", "AC002"}, target.AccountIDs())
		assert.Len(t, target.Rules(), 3)
		balance, err := target.Balance("AC001")
		require.NoError(t, err)
		assert.Equal(t, ledger.Amount(13000), balance)

		month, err := shared.ParseMonth("202306")
		require.NoError(t, err)
		_, posting, err := target.ApplyMonthlyInterest(ctx, "AC001", month)
		require.NoError(t, err)
		require.NotNil(t, posting)
		assert.Equal(t, ledger.Amount(39), posting.Transaction.Amount())
		assert.Equal(t, int64(5), posting.Sequence)
	})

	t.Run("ReplayFailure", func(t *testing.T) {
		f := newFixture(t)
		overdraw := []ledger.JournalEntry{
			{AccountID: "AC001", Transaction: txn(t, date(2023, 6, 26), "20230626-01", shared.TransactionTypeWithdrawal, 2000), Sequence: 1},
		}
		f.accounts.On("List", ctx).Return([]string{}, nil)
		f.rules.On("List", ctx).Return([]interest.Rule{}, nil)
		f.entries.On("List", ctx).Return(overdraw, nil)

		_, err := f.journal.Restore(ctx, store.NewLedgerStore(logger, nil))
		assert.ErrorIs(t, err, ledger.InsufficientFundsError{})
		assert.ErrorContains(t, err, "replaying entry 20230626-01 of account AC001")
	})

	t.Run("RuleListError", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.On("List", ctx).Return([]string{}, nil)
		f.rules.On("List", ctx).Return(nil, errors.New("db error"))

		stats, err := f.journal.Restore(ctx, store.NewLedgerStore(logger, nil))
		assert.ErrorContains(t, err, "restoring interest rules")
		assert.Equal(t, 0, stats.Rules)
	})
}
