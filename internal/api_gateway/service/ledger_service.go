package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/interest-ledger/internal/platform/messaging/producers"
	"github.com/interest-ledger/internal/statement"
)

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	ledger Ledger
	events *eventPublisher
	logger *slog.Logger
}

// NewLedgerService creates a new ledger service. A nil publisher disables events.
func NewLedgerService(logger *slog.Logger, l Ledger, publisher producers.MessagePublisher) LedgerService {
	return &LedgerServiceImpl{
		ledger: l,
		events: newEventPublisher(logger, publisher),
		logger: logger,
	}
}

// RecordTransaction validates the textual request and posts it
func (s *LedgerServiceImpl) RecordTransaction(ctx context.Context, req *shared.TransactionRequest) (*TransactionResult, error) {
	logger := s.requestLogger(ctx)

	date, kind, amount, err := parseTransactionRequest(req)
	if err != nil {
		logger.Info("Transaction request rejected", "account_id", req.AccountID, "error", err)
		return nil, err
	}

	posting, err := s.ledger.Post(ctx, strings.TrimSpace(req.AccountID), date, kind, amount)
	if err != nil {
		if IsRejection(err) {
			logger.Info("Transaction rejected", "account_id", req.AccountID, "type", string(kind), "error", err)
		} else {
			logger.Error("Failed to post transaction", "account_id", req.AccountID, "error", err)
		}
		return nil, err
	}

	logger.Info("Transaction posted",
		"account_id", posting.AccountID,
		"transaction_id", posting.Transaction.ID(),
		"type", string(kind),
		"amount", amount.String(),
		"balance", posting.Balance.String(),
	)
	s.events.posting(ctx, shared.EventTypeTransactionPosted, posting)

	lines, err := s.ledger.Statement(posting.AccountID)
	if err != nil {
		return nil, err
	}

	return &TransactionResult{
		AccountID:   posting.AccountID,
		Transaction: posting.Transaction,
		Balance:     posting.Balance,
		Statement:   lines,
	}, nil
}

// Statement returns the account's full statement
func (s *LedgerServiceImpl) Statement(ctx context.Context, accountID string) (*AccountStatement, error) {
	lines, err := s.ledger.Statement(accountID)
	if err != nil {
		return nil, err
	}

	result := &AccountStatement{AccountID: accountID, Lines: lines}
	if len(lines) > 0 {
		result.Balance = lines[len(lines)-1].Balance
	}
	return result, nil
}

// MonthlyStatement posts the month's interest and returns the month's lines
func (s *LedgerServiceImpl) MonthlyStatement(ctx context.Context, accountID string, month shared.Month) (*MonthlyStatement, error) {
	logger := s.requestLogger(ctx)

	accrual, posting, err := s.ledger.ApplyMonthlyInterest(ctx, accountID, month)
	if err != nil {
		if IsRejection(err) {
			logger.Info("Monthly statement rejected", "account_id", accountID, "month", month.String(), "error", err)
		} else {
			logger.Error("Failed to apply monthly interest", "account_id", accountID, "month", month.String(), "error", err)
		}
		return nil, err
	}

	result := &MonthlyStatement{AccountID: accountID, Month: month, Accrual: accrual}
	if posting != nil {
		txn := posting.Transaction
		result.Interest = &txn
		logger.Info("Interest posted",
			"account_id", accountID,
			"month", month.String(),
			"transaction_id", txn.ID(),
			"amount", txn.Amount().String(),
		)
		s.events.posting(ctx, shared.EventTypeInterestPosted, posting)
	}

	lines, err := s.ledger.Statement(accountID)
	if err != nil {
		return nil, err
	}

	result.OpeningBalance = statement.OpeningBalance(lines, month)
	result.Lines = statement.ForMonth(lines, month)
	result.ClosingBalance = result.OpeningBalance
	if n := len(result.Lines); n > 0 {
		result.ClosingBalance = result.Lines[n-1].Balance
	}
	return result, nil
}

func (s *LedgerServiceImpl) requestLogger(ctx context.Context) *slog.Logger {
	if id := shared.CorrelationIDFromContext(ctx); id != "" {
		return s.logger.With("correlation_id", id)
	}
	return s.logger
}

// parseTransactionRequest converts the textual fields of req into domain values
func parseTransactionRequest(req *shared.TransactionRequest) (civil.Date, shared.TransactionType, ledger.Amount, error) {
	if strings.TrimSpace(req.AccountID) == "" {
		return civil.Date{}, "", 0, ledger.ValidationError{Field: "account", Reason: "cannot be empty"}
	}
	date, err := shared.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return civil.Date{}, "", 0, ledger.ValidationError{Field: "date", Reason: err.Error()}
	}
	kind, err := shared.ParseTransactionType(req.Type)
	if err != nil {
		return civil.Date{}, "", 0, ledger.ValidationError{Field: "type", Reason: "must be D or W"}
	}
	amount, err := ledger.ParseAmount(req.Amount)
	if err != nil {
		return civil.Date{}, "", 0, err
	}
	return date, kind, amount, nil
}

// IsRejection reports whether err is a business rejection rather than an
// infrastructure failure
func IsRejection(err error) bool {
	return errors.Is(err, ledger.ValidationError{}) ||
		errors.Is(err, ledger.InsufficientFundsError{}) ||
		errors.Is(err, ledger.NotFoundError{})
}
