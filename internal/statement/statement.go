// Package statement turns ledger lines and interest rules into the tabular
// text form printed to customers.
package statement

import (
	"fmt"
	"io"

	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
)

// ForMonth keeps the lines dated inside month. Balances keep carrying every
// earlier posting.
func ForMonth(lines []ledger.StatementLine, month shared.Month) []ledger.StatementLine {
	out := make([]ledger.StatementLine, 0, len(lines))
	for _, line := range lines {
		if month.Contains(line.Date()) {
			out = append(out, line)
		}
	}
	return out
}

// OpeningBalance returns the balance carried into month
func OpeningBalance(lines []ledger.StatementLine, month shared.Month) ledger.Amount {
	var balance ledger.Amount
	for _, line := range lines {
		if !line.Date().Before(month.First()) {
			break
		}
		balance = line.Balance
	}
	return balance
}

// Render writes the account statement table
func Render(w io.Writer, accountID string, lines []ledger.StatementLine) error {
	if _, err := fmt.Fprintf(w, "Account: %s\n", accountID); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "| Date     | Txn Id      | Type | Amount | Balance |"); err != nil {
		return err
	}
	for _, line := range lines {
		_, err := fmt.Fprintf(w, "| %s | %-11s | %-4s | %6s | %7s |\n",
			shared.FormatDate(line.Date()),
			line.ID(),
			string(line.Kind()),
			line.Amount().String(),
			line.Balance.String(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderRules writes the interest rule table
func RenderRules(w io.Writer, rules []interest.Rule) error {
	if _, err := fmt.Fprintln(w, "Interest rules:"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "| Date     | RuleId | Rate (%) |"); err != nil {
		return err
	}
	for _, r := range rules {
		_, err := fmt.Fprintf(w, "| %s | %-6s | %8s |\n",
			shared.FormatDate(r.EffectiveDate),
			r.RuleID,
			r.Rate.StringFixed(2),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
