// Package interest models date-effective interest rules and the monthly
// accrual engine that integrates a daily rate over an account's balance.
package interest

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

var (
	minRate = decimal.Zero
	maxRate = decimal.NewFromInt(100)
)

// Rule is an annual interest percentage in force from EffectiveDate until a
// later rule takes over
type Rule struct {
	EffectiveDate civil.Date      `json:"effective_date"`
	RuleID        string          `json:"rule_id"`
	Rate          decimal.Decimal `json:"rate"`
}

// NewRule validates that rate lies strictly between 0 and 100
func NewRule(effectiveDate civil.Date, ruleID string, rate decimal.Decimal) (Rule, error) {
	if !effectiveDate.IsValid() {
		return Rule{}, ledger.ValidationError{Field: "date", Reason: "not a calendar date"}
	}
	if ruleID == "" {
		return Rule{}, ledger.ValidationError{Field: "rule_id", Reason: "cannot be empty"}
	}
	if rate.LessThanOrEqual(minRate) || rate.GreaterThanOrEqual(maxRate) {
		return Rule{}, ledger.ValidationError{
			Field:  "rate",
			Reason: fmt.Sprintf("%s must be greater than 0 and less than 100", rate.String()),
		}
	}
	return Rule{EffectiveDate: effectiveDate, RuleID: ruleID, Rate: rate}, nil
}

// ParseRate parses a textual percentage such as "2.20"
func ParseRate(raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, ledger.ValidationError{Field: "rate", Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return rate, nil
}

// RuleSet keeps at most one rule per effective date, ordered by date.
// It is not safe for concurrent use.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a set from rules, later entries replacing earlier ones on the same date
func NewRuleSet(rules ...Rule) *RuleSet {
	rs := &RuleSet{}
	for _, r := range rules {
		rs.Upsert(r)
	}
	return rs
}

// Upsert replaces any rule sharing rule.EffectiveDate, then inserts rule
func (rs *RuleSet) Upsert(rule Rule) {
	i := sort.Search(len(rs.rules), func(i int) bool {
		return !rs.rules[i].EffectiveDate.Before(rule.EffectiveDate)
	})
	if i < len(rs.rules) && rs.rules[i].EffectiveDate == rule.EffectiveDate {
		rs.rules[i] = rule
		return
	}
	rs.rules = append(rs.rules, Rule{})
	copy(rs.rules[i+1:], rs.rules[i:])
	rs.rules[i] = rule
}

// Rules returns a copy of the set in ascending effective-date order
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// InForce returns the latest rule whose effective date is on or before d
func (rs *RuleSet) InForce(d civil.Date) (Rule, bool) {
	i := sort.Search(len(rs.rules), func(i int) bool {
		return rs.rules[i].EffectiveDate.After(d)
	})
	if i == 0 {
		return Rule{}, false
	}
	return rs.rules[i-1], true
}
