package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// RuleRepository implements the interest.Repository interface for PostgreSQL
type RuleRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
	now     func() time.Time
}

// NewRuleRepository creates a new PostgreSQL interest rule repository
func NewRuleRepository(logger *slog.Logger, db *persistence.PostgresDB) interest.Repository {
	return &RuleRepository{
		querier: db.Pool(),
		logger:  logger,
		now:     time.Now,
	}
}

// WithTx wraps the repository with a transaction so the rule and its history
// row are written atomically
func (r *RuleRepository) WithTx(tx pgx.Tx) interest.Repository {
	return &RuleRepository{
		querier: tx,
		logger:  r.logger,
		now:     r.now,
	}
}

// Save upserts the rule keyed by its effective date
func (r *RuleRepository) Save(ctx context.Context, rule interest.Rule) error {
	query := `
		INSERT INTO interest_rules (effective_date, rule_id, rate, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (effective_date)
		DO UPDATE SET rule_id = EXCLUDED.rule_id, rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at
	`

	_, err := r.querier.Exec(ctx, query,
		rule.EffectiveDate.In(time.UTC),
		rule.RuleID,
		rule.Rate.String(),
		r.now().UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to save interest rule",
			"rule_id", rule.RuleID,
			"effective_date", rule.EffectiveDate.String(),
			"error", err,
		)
		return fmt.Errorf("failed to save interest rule: %w", err)
	}

	return nil
}

// AppendHistory records the definition in the append-only history table
func (r *RuleRepository) AppendHistory(ctx context.Context, rule interest.Rule) error {
	query := `
		INSERT INTO interest_rule_history (effective_date, rule_id, rate, defined_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.querier.Exec(ctx, query,
		rule.EffectiveDate.In(time.UTC),
		rule.RuleID,
		rule.Rate.String(),
		r.now().UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to record interest rule history", "rule_id", rule.RuleID, "error", err)
		return fmt.Errorf("failed to record interest rule history: %w", err)
	}

	return nil
}

// List returns the current rule set ordered by effective date
func (r *RuleRepository) List(ctx context.Context) ([]interest.Rule, error) {
	query := `
		SELECT effective_date, rule_id, rate::text
		FROM interest_rules
		ORDER BY effective_date
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list interest rules", "error", err)
		return nil, fmt.Errorf("failed to list interest rules: %w", err)
	}
	defer rows.Close()

	var rules []interest.Rule
	for rows.Next() {
		var (
			effective time.Time
			ruleID    string
			rawRate   string
		)
		if err := rows.Scan(&effective, &ruleID, &rawRate); err != nil {
			return nil, fmt.Errorf("failed to scan interest rule: %w", err)
		}

		rate, err := decimal.NewFromString(rawRate)
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q for rule %s: %w", rawRate, ruleID, err)
		}
		rule, err := interest.NewRule(civil.DateOf(effective), ruleID, rate)
		if err != nil {
			return nil, fmt.Errorf("invalid interest rule %s: %w", ruleID, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interest rules: %w", err)
	}

	return rules, nil
}
