package service

import (
	"context"
	"io"
	"log/slog"

	"cloud.google.com/go/civil"
	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/interest-ledger/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Post(ctx context.Context, accountID string, date civil.Date, kind shared.TransactionType, amount ledger.Amount) (*store.Posting, error) {
	args := m.Called(ctx, accountID, date, kind, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Posting), args.Error(1)
}

func (m *MockLedger) Statement(accountID string) ([]ledger.StatementLine, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.StatementLine), args.Error(1)
}

func (m *MockLedger) ApplyMonthlyInterest(ctx context.Context, accountID string, month shared.Month) (interest.Accrual, *store.Posting, error) {
	args := m.Called(ctx, accountID, month)
	var posting *store.Posting
	if args.Get(1) != nil {
		posting = args.Get(1).(*store.Posting)
	}
	return args.Get(0).(interest.Accrual), posting, args.Error(2)
}

func (m *MockLedger) UpsertRule(ctx context.Context, rule interest.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockLedger) Rules() []interest.Rule {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]interest.Rule)
}

type MockMessagingProducer struct {
	mock.Mock
}

func (m *MockMessagingProducer) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagingProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
