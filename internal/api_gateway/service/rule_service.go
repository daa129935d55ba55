package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/interest-ledger/internal/platform/messaging/producers"
)

// RuleServiceImpl implements the RuleService interface
type RuleServiceImpl struct {
	ledger Ledger
	events *eventPublisher
	logger *slog.Logger
}

// NewRuleService creates a new rule service. A nil publisher disables events.
func NewRuleService(logger *slog.Logger, l Ledger, publisher producers.MessagePublisher) RuleService {
	return &RuleServiceImpl{
		ledger: l,
		events: newEventPublisher(logger, publisher),
		logger: logger,
	}
}

// DefineRule replaces any rule with the same effective date
func (s *RuleServiceImpl) DefineRule(ctx context.Context, req *shared.InterestRuleRequest) ([]interest.Rule, error) {
	date, err := shared.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return nil, ledger.ValidationError{Field: "date", Reason: err.Error()}
	}
	rate, err := interest.ParseRate(strings.TrimSpace(req.Rate))
	if err != nil {
		return nil, err
	}
	rule, err := interest.NewRule(date, strings.TrimSpace(req.RuleID), rate)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.UpsertRule(ctx, rule); err != nil {
		s.logger.Error("Failed to store interest rule", "rule_id", rule.RuleID, "error", err)
		return nil, err
	}

	s.logger.Info("Interest rule defined",
		"rule_id", rule.RuleID,
		"effective_date", shared.FormatDate(rule.EffectiveDate),
		"rate", rule.Rate.String(),
		"correlation_id", shared.CorrelationIDFromContext(ctx),
	)
	s.events.rule(ctx, rule)

	return s.ledger.Rules(), nil
}

// ListRules returns the rules ordered by effective date
func (s *RuleServiceImpl) ListRules(_ context.Context) []interest.Rule {
	return s.ledger.Rules()
}
