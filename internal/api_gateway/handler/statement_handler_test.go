package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"github.com/interest-ledger/internal/api_gateway/service"
	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStatementRouter(svc service.LedgerService) *gin.Engine {
	router := gin.New()
	h := NewStatementHandler(newTestLogger(), svc)
	router.GET("/accounts/:id/statement", h.Get)
	router.POST("/accounts/:id/statements", h.CreateMonthly)
	return router
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func sampleStatement(t *testing.T) *service.AccountStatement {
	may := mustTxn(t, civil.Date{Year: 2023, Month: 5, Day: 5}, "20230505-01", shared.TransactionTypeDeposit, 10000)
	jun := mustTxn(t, civil.Date{Year: 2023, Month: 6, Day: 1}, "20230601-01", shared.TransactionTypeDeposit, 15000)
	wd := mustTxn(t, civil.Date{Year: 2023, Month: 6, Day: 26}, "20230626-01", shared.TransactionTypeWithdrawal, 2000)
	return &service.AccountStatement{
		AccountID: "AC001",
		Balance:   23000,
		Lines: []ledger.StatementLine{
			{Transaction: may, Balance: 10000},
			{Transaction: jun, Balance: 25000},
			{Transaction: wd, Balance: 23000},
		},
	}
}

func TestStatementHandler_Get(t *testing.T) {
	t.Run("FullStatement", func(t *testing.T) {
		mockService := new(MockLedgerService)
		mockService.On("Statement", mock.Anything, "AC001").Return(sampleStatement(t), nil).Once()

		rr := getPath(newStatementRouter(mockService), "/accounts/AC001/statement")

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decode[StatementResponse](t, rr)
		assert.Equal(t, "230.00", resp.Data.Balance)
		assert.Len(t, resp.Data.Lines, 3)
		assert.Empty(t, resp.Data.Month)
	})

	t.Run("MonthFilter", func(t *testing.T) {
		mockService := new(MockLedgerService)
		mockService.On("Statement", mock.Anything, "AC001").Return(sampleStatement(t), nil).Once()

		rr := getPath(newStatementRouter(mockService), "/accounts/AC001/statement?month=202306")

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decode[StatementResponse](t, rr)
		assert.Equal(t, "202306", resp.Data.Month)
		assert.Equal(t, "100.00", resp.Data.OpeningBalance)
		assert.Equal(t, "230.00", resp.Data.Balance)
		require.Len(t, resp.Data.Lines, 2)
		assert.Equal(t, "20230601-01", resp.Data.Lines[0].TransactionID)
	})

	t.Run("TextFormat", func(t *testing.T) {
		mockService := new(MockLedgerService)
		mockService.On("Statement", mock.Anything, "AC001").Return(sampleStatement(t), nil).Once()

		rr := getPath(newStatementRouter(mockService), "/accounts/AC001/statement?month=202306&format=text")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
		body := rr.Body.String()
		assert.Contains(t, body, "Account: AC001")
		assert.Contains(t, body, "| 20230626 | 20230626-01 | W    |  20.00 |  230.00 |")
		assert.NotContains(t, body, "20230505")
	})

	t.Run("InvalidMonth", func(t *testing.T) {
		mockService := new(MockLedgerService)
		rr := getPath(newStatementRouter(mockService), "/accounts/AC001/statement?month=2023-6")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Statement", mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockLedgerService)
		mockService.On("Statement", mock.Anything, "NOPE").Return(nil, ledger.NotFoundError{AccountID: "NOPE"}).Once()

		rr := getPath(newStatementRouter(mockService), "/accounts/NOPE/statement")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "NOT_FOUND", decode[any](t, rr).Error.Code)
	})
}

func TestStatementHandler_CreateMonthly(t *testing.T) {
	jan := shared.Month{Year: 2025, Month: 1}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLedgerService)
		dep := mustTxn(t, jan.First(), "20250101-01", shared.TransactionTypeDeposit, 100000)
		intr := mustTxn(t, jan.Last(), "20250131-01", shared.TransactionTypeInterest, 425)

		mockService.On("MonthlyStatement", mock.Anything, "AC001", jan).Return(&service.MonthlyStatement{
			AccountID: "AC001",
			Month:     jan,
			Accrual: interest.Accrual{
				Exact:    decimal.RequireFromString("4.2465753424657534"),
				Interest: 425,
				Periods: []interest.Period{{
					Start: jan.First(), End: jan.Last(), Days: 31, Balance: 100000,
					Rate: decimal.NewFromInt(5), RuleID: "R1",
				}},
			},
			Interest:       &intr,
			OpeningBalance: 0,
			ClosingBalance: 100425,
			Lines: []ledger.StatementLine{
				{Transaction: dep, Balance: 100000},
				{Transaction: intr, Balance: 100425},
			},
		}, nil).Once()

		rr := postJSON(newStatementRouter(mockService), "/accounts/AC001/statements", `{"month":"202501"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decode[MonthlyStatementResponse](t, rr)
		require.NotNil(t, resp.Data.Interest)
		assert.Equal(t, "4.25", resp.Data.Interest.Amount)
		assert.Equal(t, "I", resp.Data.Interest.Type)
		assert.Equal(t, "4.246575", resp.Data.ExactInterest)
		assert.Equal(t, "1004.25", resp.Data.Balance)
		require.Len(t, resp.Data.Periods, 1)
		assert.Equal(t, 31, resp.Data.Periods[0].Days)
		assert.Equal(t, "5.00", resp.Data.Periods[0].Rate)
	})

	t.Run("InvalidMonth", func(t *testing.T) {
		mockService := new(MockLedgerService)
		rr := postJSON(newStatementRouter(mockService), "/accounts/AC001/statements", `{"month":"202513"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "MonthlyStatement", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MonthNotEnded", func(t *testing.T) {
		mockService := new(MockLedgerService)
		mockService.On("MonthlyStatement", mock.Anything, "AC001", jan).
			Return(nil, ledger.ValidationError{Field: "date", Reason: "cannot be in the future"}).Once()

		rr := postJSON(newStatementRouter(mockService), "/accounts/AC001/statements", `{"month":"202501"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockLedgerService)
		mockService.On("MonthlyStatement", mock.Anything, "NOPE", jan).
			Return(nil, ledger.NotFoundError{AccountID: "NOPE"}).Once()

		rr := postJSON(newStatementRouter(mockService), "/accounts/NOPE/statements", `{"month":"202501"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
