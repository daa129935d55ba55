// Package accrual runs month-end interest across every account on a bounded
// worker pool.
package accrual

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/interest-ledger/internal/api_gateway/service"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
)

// Service accrues and posts one month of interest for all accounts
type Service interface {
	AccrueMonth(ctx context.Context, month shared.Month) (*Summary, error)
}

// Accounts lists the accounts to accrue
type Accounts interface {
	AccountIDs() []string
}

// Statements posts one account's monthly interest
type Statements interface {
	MonthlyStatement(ctx context.Context, accountID string, month shared.Month) (*service.MonthlyStatement, error)
}

// Result is the outcome for a single account. Err is set when the account failed.
type Result struct {
	AccountID     string
	Interest      ledger.Amount
	TransactionID string // empty when nothing was posted
	UncoveredDays int
	Err           error
}

// Summary aggregates one batch run, results ordered by account id
type Summary struct {
	Month   shared.Month
	Results []Result
	Posted  int
	Failed  int
	Total   ledger.Amount
}

type Config struct {
	Size int
}

// WorkerPoolService implements Service on an ants pool
type WorkerPoolService struct {
	accounts   Accounts
	statements Statements
	pool       *ants.Pool
	logger     *slog.Logger
}

func NewWorkerPoolService(accounts Accounts, statements Statements, config Config, logger *slog.Logger) (*WorkerPoolService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to create accrual worker pool: %w", err)
	}

	return &WorkerPoolService{
		accounts:   accounts,
		statements: statements,
		pool:       pool,
		logger:     logger,
	}, nil
}

// AccrueMonth applies month's interest to every account. Accounts are
// independent: one failure does not stop the others. The returned error is
// non-nil only when the run itself could not proceed.
func (s *WorkerPoolService) AccrueMonth(ctx context.Context, month shared.Month) (*Summary, error) {
	if month.Last().After(shared.Today()) {
		return nil, ledger.ValidationError{Field: "month", Reason: fmt.Sprintf("%s has not ended yet", month)}
	}

	ids := s.accounts.AccountIDs()
	results := make([]Result, len(ids))

	logger := s.logger.With("month", month.String())
	if id := shared.CorrelationIDFromContext(ctx); id != "" {
		logger = logger.With("correlation_id", id)
	}
	logger.Info("Starting month-end accrual", "accounts", len(ids), "workers", s.pool.Cap())

	var wg sync.WaitGroup
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			results[i] = Result{AccountID: id, Err: err}
			continue
		}

		i, id := i, id
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			results[i] = s.accrueOne(ctx, id, month)
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit accrual to worker pool", "account_id", id, "error", err)
			results[i] = Result{AccountID: id, Err: err}
		}
	}
	wg.Wait()

	summary := &Summary{Month: month, Results: results}
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.TransactionID != "":
			summary.Posted++
			summary.Total += r.Interest
		}
	}

	logger.Info("Month-end accrual finished",
		"accounts", len(ids),
		"posted", summary.Posted,
		"failed", summary.Failed,
		"total_interest", summary.Total.String(),
	)

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("accrual interrupted: %w", err)
	}
	return summary, nil
}

func (s *WorkerPoolService) accrueOne(ctx context.Context, accountID string, month shared.Month) Result {
	statement, err := s.statements.MonthlyStatement(ctx, accountID, month)
	if err != nil {
		s.logger.Error("Accrual failed", "account_id", accountID, "month", month.String(), "error", err)
		return Result{AccountID: accountID, Err: err}
	}

	result := Result{
		AccountID:     accountID,
		Interest:      statement.Accrual.Interest,
		UncoveredDays: statement.Accrual.UncoveredDays,
	}
	if statement.Interest != nil {
		result.TransactionID = statement.Interest.ID()
	}
	return result
}

// Shutdown releases the worker pool
func (s *WorkerPoolService) Shutdown() {
	s.logger.Info("Shutting down accrual worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Capacity returns the capacity of the worker pool
func (s *WorkerPoolService) Capacity() int {
	return s.pool.Cap()
}
