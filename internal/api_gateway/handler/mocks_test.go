package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"github.com/interest-ledger/internal/accrual"
	"github.com/interest-ledger/internal/api_gateway/service"
	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordTransaction(ctx context.Context, req *shared.TransactionRequest) (*service.TransactionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TransactionResult), args.Error(1)
}

func (m *MockLedgerService) Statement(ctx context.Context, accountID string) (*service.AccountStatement, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AccountStatement), args.Error(1)
}

func (m *MockLedgerService) MonthlyStatement(ctx context.Context, accountID string, month shared.Month) (*service.MonthlyStatement, error) {
	args := m.Called(ctx, accountID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MonthlyStatement), args.Error(1)
}

type MockRuleService struct {
	mock.Mock
}

func (m *MockRuleService) DefineRule(ctx context.Context, req *shared.InterestRuleRequest) ([]interest.Rule, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interest.Rule), args.Error(1)
}

func (m *MockRuleService) ListRules(ctx context.Context) []interest.Rule {
	args := m.Called(ctx)
	return args.Get(0).([]interest.Rule)
}

type MockAccrualService struct {
	mock.Mock
}

func (m *MockAccrualService) AccrueMonth(ctx context.Context, month shared.Month) (*accrual.Summary, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accrual.Summary), args.Error(1)
}

// DataResponse is a typed version of Response for decoding test bodies
type DataResponse[T any] struct {
	Data          T          `json:"data"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) DataResponse[T] {
	t.Helper()
	var resp DataResponse[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func mustTxn(t *testing.T, date civil.Date, id string, kind shared.TransactionType, amount ledger.Amount) ledger.Transaction {
	t.Helper()
	txn, err := ledger.NewTransaction(date, id, kind, amount)
	require.NoError(t, err)
	return txn
}

func init() {
	gin.SetMode(gin.TestMode)
}
