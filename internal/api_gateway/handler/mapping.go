package handler

import (
	"github.com/interest-ledger/internal/accrual"
	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
)

func mapTransaction(txn ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		Date:          shared.FormatDate(txn.Date()),
		TransactionID: txn.ID(),
		Type:          string(txn.Kind()),
		Amount:        txn.Amount().String(),
	}
}

func mapLines(lines []ledger.StatementLine) []StatementLineResponse {
	out := make([]StatementLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, StatementLineResponse{
			TransactionResponse: mapTransaction(line.Transaction),
			Balance:             line.Balance.String(),
		})
	}
	return out
}

func mapRules(rules []interest.Rule) []InterestRuleResponse {
	out := make([]InterestRuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, InterestRuleResponse{
			Date:   shared.FormatDate(r.EffectiveDate),
			RuleID: r.RuleID,
			Rate:   r.Rate.StringFixed(2),
		})
	}
	return out
}

func mapPeriods(periods []interest.Period) []PeriodResponse {
	out := make([]PeriodResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, PeriodResponse{
			Start:   shared.FormatDate(p.Start),
			End:     shared.FormatDate(p.End),
			Days:    p.Days,
			Balance: p.Balance.String(),
			RuleID:  p.RuleID,
			Rate:    p.Rate.StringFixed(2),
		})
	}
	return out
}

func mapSummary(summary *accrual.Summary) AccrualResponse {
	resp := AccrualResponse{
		Month:         summary.Month.String(),
		Posted:        summary.Posted,
		Failed:        summary.Failed,
		TotalInterest: summary.Total.String(),
		Results:       make([]AccrualResultResponse, 0, len(summary.Results)),
	}
	for _, r := range summary.Results {
		item := AccrualResultResponse{
			AccountID:     r.AccountID,
			Interest:      r.Interest.String(),
			TransactionID: r.TransactionID,
			UncoveredDays: r.UncoveredDays,
		}
		if r.Err != nil {
			item.Error = r.Err.Error()
		}
		resp.Results = append(resp.Results, item)
	}
	return resp
}
