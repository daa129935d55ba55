package interest

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/interest-ledger/internal/domain/ledger"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DaysInYear is fixed; leap years are not adjusted for
const DaysInYear = 365

// divisor turns balance(cents) * rate(percent) * days into currency units
var divisor = decimal.NewFromInt(100 * 100 * DaysInYear)

// Period is a run of days with a constant end-of-day balance and rate
type Period struct {
	Start   civil.Date
	End     civil.Date
	Days    int
	Balance ledger.Amount
	// Rate is zero and RuleID empty when no rule was in force
	Rate   decimal.Decimal
	RuleID string
}

// Covered reports whether a rule was in force for the period
func (p Period) Covered() bool {
	return p.RuleID != ""
}

// Accrual is the outcome of integrating interest over one month
type Accrual struct {
	AccountID string
	Month     shared.Month
	Periods   []Period
	// Exact is the unrounded total in currency units
	Exact decimal.Decimal
	// Interest is Exact rounded half-up to cents
	Interest ledger.Amount
	// UncoveredDays counts days with no rule in force, accrued at zero
	UncoveredDays int
}

// Accrue computes the interest earned by acc over month. It reads the ledger
// and rules only; nothing is posted.
func Accrue(acc *ledger.Account, rules *RuleSet, month shared.Month) Accrual {
	first, last := month.First(), month.Last()

	deltas := make(map[civil.Date]ledger.Amount)
	boundaries := []civil.Date{first}
	for _, txn := range acc.Transactions() {
		if !month.Contains(txn.Date()) {
			continue
		}
		boundaries = append(boundaries, txn.Date())
		deltas[txn.Date()] += txn.Delta()
	}
	for _, r := range rules.Rules() {
		if r.EffectiveDate.After(first) && !r.EffectiveDate.After(last) {
			boundaries = append(boundaries, r.EffectiveDate)
		}
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })
	boundaries = dedupe(boundaries)

	result := Accrual{AccountID: acc.ID(), Month: month, Exact: decimal.Zero}
	numerator := decimal.Zero
	balance := acc.BalanceBefore(first)
	for i, start := range boundaries {
		end := last
		if i+1 < len(boundaries) {
			end = boundaries[i+1].AddDays(-1)
		}
		balance += deltas[start]
		days := end.DaysSince(start) + 1

		p := Period{Start: start, End: end, Days: days, Balance: balance, Rate: decimal.Zero}
		if rule, ok := rules.InForce(start); ok {
			p.Rate = rule.Rate
			p.RuleID = rule.RuleID
			numerator = numerator.Add(
				decimal.NewFromInt(int64(balance)).Mul(rule.Rate).Mul(decimal.NewFromInt(int64(days))),
			)
		} else {
			result.UncoveredDays += days
		}
		result.Periods = append(result.Periods, p)
	}

	result.Exact = numerator.DivRound(divisor, 16)
	result.Interest = ledger.AmountFromDecimal(result.Exact)
	return result
}

// InterestTransaction builds the posting for a non-zero accrual, dated the last
// day of the month. ok is false when there is nothing to post.
func InterestTransaction(acc *ledger.Account, accrual Accrual) (txn ledger.Transaction, ok bool, err error) {
	if accrual.Interest <= 0 {
		return ledger.Transaction{}, false, nil
	}
	date := accrual.Month.Last()
	txn, err = ledger.NewTransaction(date, acc.NextTransactionID(date), shared.TransactionTypeInterest, accrual.Interest)
	if err != nil {
		return ledger.Transaction{}, false, err
	}
	return txn, true, nil
}

// ApplyMonthlyInterest accrues interest for month and posts it to acc as a single
// Interest transaction. Calling it twice for the same month posts twice.
func ApplyMonthlyInterest(acc *ledger.Account, rules *RuleSet, month shared.Month) (Accrual, error) {
	accrual := Accrue(acc, rules, month)
	txn, ok, err := InterestTransaction(acc, accrual)
	if err != nil || !ok {
		return accrual, err
	}
	return accrual, acc.AddTransaction(txn)
}

func dedupe(dates []civil.Date) []civil.Date {
	out := dates[:0]
	for _, d := range dates {
		if len(out) == 0 || d != out[len(out)-1] {
			out = append(out, d)
		}
	}
	return out
}
