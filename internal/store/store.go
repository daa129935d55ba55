// Package store holds the process state of the ledger: every account and the
// shared interest rule set. It replaces global state with an explicit object
// that serializes mutations per account.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"cloud.google.com/go/civil"
	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
)

// Journal receives every posting and rule change before it becomes visible.
// An error aborts the operation and leaves the store unchanged.
type Journal interface {
	AppendTransaction(ctx context.Context, accountID string, txn ledger.Transaction, sequence int64) error
	SaveRule(ctx context.Context, rule interest.Rule) error
}

type noopJournal struct{}

func (noopJournal) AppendTransaction(context.Context, string, ledger.Transaction, int64) error {
	return nil
}

func (noopJournal) SaveRule(context.Context, interest.Rule) error { return nil }

// accountSlot guards one ledger; admission and accrual hold mu for their whole
// read-then-write sequence
type accountSlot struct {
	mu      sync.Mutex
	account *ledger.Account
}

// Posting is the result of a successful admission
type Posting struct {
	AccountID   string
	Transaction ledger.Transaction
	Sequence    int64
	Balance     ledger.Amount
}

// LedgerStore owns all accounts and the interest rule set
type LedgerStore struct {
	logger  *slog.Logger
	journal Journal

	mu       sync.RWMutex // guards accounts and rules
	accounts map[string]*accountSlot
	rules    *interest.RuleSet

	sequence atomic.Int64
}

// NewLedgerStore creates an empty store. A nil journal keeps everything in memory.
func NewLedgerStore(logger *slog.Logger, journal Journal) *LedgerStore {
	if journal == nil {
		journal = noopJournal{}
	}
	return &LedgerStore{
		logger:   logger,
		journal:  journal,
		accounts: make(map[string]*accountSlot),
		rules:    interest.NewRuleSet(),
	}
}

// slot returns the account's slot, creating the account on first reference when create is set
func (s *LedgerStore) slot(accountID string, create bool) (*accountSlot, error) {
	s.mu.RLock()
	sl, ok := s.accounts[accountID]
	s.mu.RUnlock()
	if ok {
		return sl, nil
	}
	if !create {
		return nil, ledger.NotFoundError{AccountID: accountID}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok = s.accounts[accountID]; ok {
		return sl, nil
	}
	sl = &accountSlot{account: ledger.NewAccount(accountID)}
	s.accounts[accountID] = sl
	s.logger.Debug("Account created", "account_id", accountID)
	return sl, nil
}

// admit journals txn and appends it. Callers hold sl.mu.
func (s *LedgerStore) admit(ctx context.Context, sl *accountSlot, txn ledger.Transaction) (*Posting, error) {
	acc := sl.account
	if err := acc.CanAdmit(txn); err != nil {
		return nil, err
	}

	seq := s.sequence.Add(1)
	if err := s.journal.AppendTransaction(ctx, acc.ID(), txn, seq); err != nil {
		return nil, fmt.Errorf("failed to journal transaction %s: %w", txn.ID(), err)
	}
	if err := acc.AddTransaction(txn); err != nil {
		return nil, err
	}

	return &Posting{AccountID: acc.ID(), Transaction: txn, Sequence: seq, Balance: acc.Balance()}, nil
}

// Post records a deposit or withdrawal, creating the account if it is unknown.
// The transaction id is generated as yyyyMMdd-NN.
func (s *LedgerStore) Post(ctx context.Context, accountID string, date civil.Date, kind shared.TransactionType, amount ledger.Amount) (*Posting, error) {
	if accountID == "" {
		return nil, ledger.ValidationError{Field: "account", Reason: "cannot be empty"}
	}
	sl, err := s.slot(accountID, true)
	if err != nil {
		return nil, err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	txn, err := ledger.NewTransaction(date, sl.account.NextTransactionID(date), kind, amount)
	if err != nil {
		return nil, err
	}
	return s.admit(ctx, sl, txn)
}

// Replay admits an already journaled transaction without journaling it again.
// It is used to rebuild the store at startup, in original sequence order.
func (s *LedgerStore) Replay(accountID string, txn ledger.Transaction, sequence int64) error {
	sl, err := s.slot(accountID, true)
	if err != nil {
		return err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if err := sl.account.AddTransaction(txn); err != nil {
		return err
	}

	for {
		cur := s.sequence.Load()
		if sequence <= cur || s.sequence.CompareAndSwap(cur, sequence) {
			return nil
		}
	}
}

// RestoreAccount registers a journaled account, which may have no transactions
func (s *LedgerStore) RestoreAccount(accountID string) {
	_, _ = s.slot(accountID, true)
}

// UpsertRule journals rule and replaces any rule on the same effective date
func (s *LedgerStore) UpsertRule(ctx context.Context, rule interest.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.journal.SaveRule(ctx, rule); err != nil {
		return fmt.Errorf("failed to journal interest rule %s: %w", rule.RuleID, err)
	}
	s.rules.Upsert(rule)
	return nil
}

// ReplayRule restores a journaled rule
func (s *LedgerStore) ReplayRule(rule interest.Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules.Upsert(rule)
}

// Rules returns the rule set ordered by effective date
func (s *LedgerStore) Rules() []interest.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules.Rules()
}

// ruleSnapshot copies the rule set so accrual runs without holding the store lock
func (s *LedgerStore) ruleSnapshot() *interest.RuleSet {
	return interest.NewRuleSet(s.Rules()...)
}

// Statement returns the account's transactions with running balances.
// Unknown accounts fail with NotFoundError.
func (s *LedgerStore) Statement(accountID string) ([]ledger.StatementLine, error) {
	sl, err := s.slot(accountID, false)
	if err != nil {
		return nil, err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.account.Statement(), nil
}

// Balance returns the account's current balance
func (s *LedgerStore) Balance(accountID string) (ledger.Amount, error) {
	sl, err := s.slot(accountID, false)
	if err != nil {
		return 0, err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.account.Balance(), nil
}

// AccountIDs lists every known account in lexical order
func (s *LedgerStore) AccountIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// ApplyMonthlyInterest accrues interest on the account for month and posts it
// as one Interest transaction on the last day of the month. Nothing is posted
// when the rounded interest is zero; the returned posting is nil in that case.
func (s *LedgerStore) ApplyMonthlyInterest(ctx context.Context, accountID string, month shared.Month) (interest.Accrual, *Posting, error) {
	sl, err := s.slot(accountID, false)
	if err != nil {
		return interest.Accrual{}, nil, err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	accrual := interest.Accrue(sl.account, s.ruleSnapshot(), month)
	if accrual.UncoveredDays > 0 {
		s.logger.Warn("No interest rule in force for part of the month, accrued at zero",
			"account_id", accountID,
			"month", month.String(),
			"uncovered_days", accrual.UncoveredDays,
		)
	}

	txn, ok, err := interest.InterestTransaction(sl.account, accrual)
	if err != nil || !ok {
		return accrual, nil, err
	}

	posting, err := s.admit(ctx, sl, txn)
	if err != nil {
		return accrual, nil, err
	}
	return accrual, posting, nil
}
