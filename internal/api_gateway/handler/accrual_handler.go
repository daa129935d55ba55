package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/interest-ledger/internal/accrual"
	"github.com/interest-ledger/internal/domain/shared"
)

// AccrualHandler triggers month-end interest for every account
type AccrualHandler struct {
	accrualService accrual.Service
	logger         *slog.Logger
}

// NewAccrualHandler creates a new accrual handler
func NewAccrualHandler(logger *slog.Logger, accrualService accrual.Service) *AccrualHandler {
	return &AccrualHandler{
		accrualService: accrualService,
		logger:         logger,
	}
}

// Run accrues the requested month. Per-account failures are reported in the
// body, the request itself still succeeds.
func (h *AccrualHandler) Run(c *gin.Context) {
	var req AccrualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	month, err := shared.ParseMonth(req.Month)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	summary, err := h.accrualService.AccrueMonth(c.Request.Context(), month)
	if err != nil {
		h.logger.Warn("Accrual run failed", "month", month.String(), "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, mapSummary(summary))
}
