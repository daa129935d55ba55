package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/interest-ledger/internal/api_gateway/service"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/interest-ledger/internal/statement"
)

// RuleHandler handles interest rule maintenance
type RuleHandler struct {
	ruleService service.RuleService
	logger      *slog.Logger
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(logger *slog.Logger, ruleService service.RuleService) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
		logger:      logger,
	}
}

// Create defines a rule, replacing any rule on the same date, and returns all rules
func (h *RuleHandler) Create(c *gin.Context) {
	var req CreateInterestRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rules, err := h.ruleService.DefineRule(c.Request.Context(), &shared.InterestRuleRequest{
		Date:   req.Date,
		RuleID: req.RuleID,
		Rate:   req.Rate,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondCreated(c, mapRules(rules))
}

// List returns all rules ordered by effective date
func (h *RuleHandler) List(c *gin.Context) {
	rules := h.ruleService.ListRules(c.Request.Context())

	if c.Query("format") == formatText {
		var buf bytes.Buffer
		if err := statement.RenderRules(&buf, rules); err != nil {
			h.logger.Error("Failed to render rules", "error", err)
			RespondInternalError(c)
			return
		}
		RespondText(c, http.StatusOK, buf.String())
		return
	}

	RespondOK(c, mapRules(rules))
}
