// Package ledger holds the validated transaction value and the per-account
// ledger that admits transactions and derives balances.
package ledger

import (
	"fmt"
	"math"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Amount is a monetary amount in cents
type Amount int64

// MaxAmount is the largest amount, and the largest balance, a ledger can hold
const MaxAmount = Amount(math.MaxInt64)

var maxCents = decimal.NewFromInt(int64(MaxAmount))

// ParseAmount converts a decimal string such as "100.5" into cents.
// Values with more than two decimal places, that are not positive, or that
// exceed MaxAmount are rejected.
func ParseAmount(raw string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	if !d.IsPositive() {
		return 0, ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, ValidationError{Field: "amount", Reason: "at most 2 decimal places are allowed"}
	}
	if cents.GreaterThan(maxCents) {
		return 0, ValidationError{Field: "amount", Reason: fmt.Sprintf("must not exceed %s", MaxAmount)}
	}
	return Amount(cents.IntPart()), nil
}

// AmountFromDecimal converts d to cents, rounding half-up to 2 decimal places.
// Results outside [-MaxAmount, MaxAmount] saturate at the bound.
func AmountFromDecimal(d decimal.Decimal) Amount {
	cents := d.Round(2).Shift(2)
	switch {
	case cents.GreaterThan(maxCents):
		return MaxAmount
	case cents.LessThan(maxCents.Neg()):
		return -MaxAmount
	}
	return Amount(cents.IntPart())
}

// Decimal returns the amount in currency units
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// Transaction is an immutable record of a single monetary movement
type Transaction struct {
	date   civil.Date
	id     string
	kind   shared.TransactionType
	amount Amount
}

// NewTransaction validates its inputs against today's UTC date
func NewTransaction(date civil.Date, id string, kind shared.TransactionType, amount Amount) (Transaction, error) {
	return newTransaction(shared.Today(), date, id, kind, amount)
}

func newTransaction(today, date civil.Date, id string, kind shared.TransactionType, amount Amount) (Transaction, error) {
	if !date.IsValid() {
		return Transaction{}, ValidationError{Field: "date", Reason: "not a calendar date"}
	}
	if date.After(today) {
		return Transaction{}, ValidationError{Field: "date", Reason: "transaction date cannot be in the future"}
	}
	if !kind.IsValid() {
		return Transaction{}, ValidationError{Field: "type", Reason: fmt.Sprintf("unknown transaction type %q", string(kind))}
	}
	if amount <= 0 {
		return Transaction{}, ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	return Transaction{date: date, id: id, kind: kind, amount: amount}, nil
}

// Date is the business date the transaction is effective on
func (t Transaction) Date() civil.Date { return t.date }

// ID is the yyyyMMdd-NN identifier assigned at admission
func (t Transaction) ID() string { return t.id }

// Kind is Deposit, Withdrawal or Interest
func (t Transaction) Kind() shared.TransactionType { return t.kind }

// Amount is the unsigned value in cents; see Delta for the signed effect
func (t Transaction) Amount() Amount { return t.amount }

// Delta is the signed effect of the transaction on the balance
func (t Transaction) Delta() Amount {
	return Amount(t.kind.Sign()) * t.amount
}
