package service

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/interest-ledger/internal/store"
)

// LedgerService defines the account-facing operations
type LedgerService interface {
	// RecordTransaction parses and posts a deposit or withdrawal, creating the account on
	// first use. Returns ValidationError or InsufficientFundsError on rejection.
	RecordTransaction(ctx context.Context, req *shared.TransactionRequest) (*TransactionResult, error)

	// Statement returns every posting of the account with running balances.
	// Returns NotFoundError for unknown accounts.
	Statement(ctx context.Context, accountID string) (*AccountStatement, error)

	// MonthlyStatement applies the month's interest and returns the month's postings.
	// Every call posts interest again when the accrual is non-zero.
	MonthlyStatement(ctx context.Context, accountID string, month shared.Month) (*MonthlyStatement, error)
}

// RuleService defines interest rule maintenance
type RuleService interface {
	// DefineRule validates and upserts a rule, returning the full rule list
	DefineRule(ctx context.Context, req *shared.InterestRuleRequest) ([]interest.Rule, error)

	// ListRules returns every rule ordered by effective date
	ListRules(ctx context.Context) []interest.Rule
}

// Ledger is the subset of the store the services depend on
type Ledger interface {
	Post(ctx context.Context, accountID string, date civil.Date, kind shared.TransactionType, amount ledger.Amount) (*store.Posting, error)
	Statement(accountID string) ([]ledger.StatementLine, error)
	ApplyMonthlyInterest(ctx context.Context, accountID string, month shared.Month) (interest.Accrual, *store.Posting, error)
	UpsertRule(ctx context.Context, rule interest.Rule) error
	Rules() []interest.Rule
}

// TransactionResult is the outcome of a successful posting
type TransactionResult struct {
	AccountID   string
	Transaction ledger.Transaction
	Balance     ledger.Amount
	Statement   []ledger.StatementLine
}

// AccountStatement is the full history of one account
type AccountStatement struct {
	AccountID string
	Lines     []ledger.StatementLine
	Balance   ledger.Amount
}

// MonthlyStatement is one month of an account after interest was applied
type MonthlyStatement struct {
	AccountID      string
	Month          shared.Month
	Accrual        interest.Accrual
	Interest       *ledger.Transaction // nil when nothing was posted
	OpeningBalance ledger.Amount
	ClosingBalance ledger.Amount
	Lines          []ledger.StatementLine
}
