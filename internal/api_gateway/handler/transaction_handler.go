package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/interest-ledger/internal/api_gateway/middleware"
	"github.com/interest-ledger/internal/api_gateway/service"
	"github.com/interest-ledger/internal/domain/shared"
)

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, ledgerService service.LedgerService) *TransactionHandler {
	return &TransactionHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Create records a deposit or withdrawal and returns the account's statement
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.ledgerService.RecordTransaction(c.Request.Context(), &shared.TransactionRequest{
		Date:          req.Date,
		AccountID:     req.Account,
		Type:          req.Type,
		Amount:        req.Amount,
		CorrelationID: middleware.GetCorrelationID(c),
		Timestamp:     time.Now().UTC(),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondCreated(c, RecordTransactionResponse{
		AccountID:   result.AccountID,
		Transaction: mapTransaction(result.Transaction),
		Balance:     result.Balance.String(),
		Statement:   mapLines(result.Statement),
	})
}
