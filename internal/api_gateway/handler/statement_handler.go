package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/interest-ledger/internal/api_gateway/service"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/interest-ledger/internal/statement"
)

const formatText = "text"

// StatementHandler serves account statements
type StatementHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler(logger *slog.Logger, ledgerService service.LedgerService) *StatementHandler {
	return &StatementHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// StatementQuery selects an optional month and output format
type StatementQuery struct {
	Month  string `form:"month" binding:"omitempty,len=6,numeric"`
	Format string `form:"format" binding:"omitempty,oneof=json text"`
}

// Get returns the account statement without posting anything
func (h *StatementHandler) Get(c *gin.Context) {
	accountID := c.Param("id")

	var query StatementQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.ledgerService.Statement(c.Request.Context(), accountID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	resp := StatementResponse{
		AccountID: result.AccountID,
		Balance:   result.Balance.String(),
	}
	lines := result.Lines
	if query.Month != "" {
		month, err := shared.ParseMonth(query.Month)
		if err != nil {
			RespondBadRequest(c, err.Error())
			return
		}
		resp.Month = month.String()
		resp.OpeningBalance = statement.OpeningBalance(lines, month).String()
		lines = statement.ForMonth(lines, month)
		if len(lines) > 0 {
			resp.Balance = lines[len(lines)-1].Balance.String()
		} else {
			resp.Balance = resp.OpeningBalance
		}
	}

	if query.Format == formatText {
		h.respondRendered(c, accountID, lines)
		return
	}

	resp.Lines = mapLines(lines)
	RespondOK(c, resp)
}

// CreateMonthly applies the month's interest and returns the month's statement
func (h *StatementHandler) CreateMonthly(c *gin.Context) {
	accountID := c.Param("id")

	var req MonthlyStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	month, err := shared.ParseMonth(req.Month)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.ledgerService.MonthlyStatement(c.Request.Context(), accountID, month)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if c.Query("format") == formatText {
		h.respondRendered(c, accountID, result.Lines)
		return
	}

	resp := MonthlyStatementResponse{
		StatementResponse: StatementResponse{
			AccountID:      result.AccountID,
			Month:          month.String(),
			OpeningBalance: result.OpeningBalance.String(),
			Balance:        result.ClosingBalance.String(),
			Lines:          mapLines(result.Lines),
		},
		ExactInterest: result.Accrual.Exact.StringFixed(6),
		UncoveredDays: result.Accrual.UncoveredDays,
		Periods:       mapPeriods(result.Accrual.Periods),
	}
	if result.Interest != nil {
		txn := mapTransaction(*result.Interest)
		resp.Interest = &txn
	}
	RespondOK(c, resp)
}

func (h *StatementHandler) respondRendered(c *gin.Context, accountID string, lines []ledger.StatementLine) {
	var buf bytes.Buffer
	if err := statement.Render(&buf, accountID, lines); err != nil {
		h.logger.Error("Failed to render statement", "account_id", accountID, "error", err)
		RespondInternalError(c)
		return
	}
	RespondText(c, http.StatusOK, buf.String())
}
