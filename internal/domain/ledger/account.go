package ledger

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/interest-ledger/internal/domain/shared"
)

// Account is the append-only ledger of one account identifier.
// It is not safe for concurrent use; the store serializes access per account.
type Account struct {
	id string
	// chronological: ascending date, same-day entries in admission order
	txns    []Transaction
	balance Amount
}

// StatementLine pairs a transaction with the running balance after it
type StatementLine struct {
	Transaction
	Balance Amount
}

// NewAccount creates an empty ledger for id
func NewAccount(id string) *Account {
	return &Account{id: id}
}

func (a *Account) ID() string { return a.id }

// Balance is the sum of deposits and interest postings minus withdrawals
func (a *Account) Balance() Amount {
	return a.balance
}

// Len returns the number of admitted transactions
func (a *Account) Len() int {
	return len(a.txns)
}

// CanAdmit checks txn against the current balance without mutating the ledger.
// Withdrawals must be covered by the balance; credits must not push it past MaxAmount.
func (a *Account) CanAdmit(txn Transaction) error {
	if txn.Kind() == shared.TransactionTypeWithdrawal {
		if txn.Amount() > a.balance {
			return InsufficientFundsError{AccountID: a.id, Requested: txn.Amount(), Available: a.balance}
		}
		return nil
	}
	if txn.Amount() > MaxAmount-a.balance {
		return ValidationError{Field: "amount", Reason: fmt.Sprintf("balance would exceed %s", MaxAmount)}
	}
	return nil
}

// AddTransaction posts txn to the ledger. A withdrawal larger than the current
// balance fails with InsufficientFundsError and leaves the ledger unchanged.
func (a *Account) AddTransaction(txn Transaction) error {
	if err := a.CanAdmit(txn); err != nil {
		return err
	}

	pos := len(a.txns)
	for pos > 0 && a.txns[pos-1].Date().After(txn.Date()) {
		pos--
	}
	a.txns = append(a.txns, Transaction{})
	copy(a.txns[pos+1:], a.txns[pos:])
	a.txns[pos] = txn
	a.balance += txn.Delta()
	return nil
}

// Transactions returns the ledger ordered by date, same-day entries in admission order
func (a *Account) Transactions() []Transaction {
	out := make([]Transaction, len(a.txns))
	copy(out, a.txns)
	return out
}

// Statement returns every transaction with the running balance after it
func (a *Account) Statement() []StatementLine {
	lines := make([]StatementLine, 0, len(a.txns))
	var running Amount
	for _, txn := range a.txns {
		running += txn.Delta()
		lines = append(lines, StatementLine{Transaction: txn, Balance: running})
	}
	return lines
}

// BalanceBefore returns the balance from every transaction dated strictly before d
func (a *Account) BalanceBefore(d civil.Date) Amount {
	var sum Amount
	for _, txn := range a.txns {
		if !txn.Date().Before(d) {
			break
		}
		sum += txn.Delta()
	}
	return sum
}

// NextTransactionID generates the id for the next posting dated d: yyyyMMdd-NN,
// where NN counts the account's postings on that date.
func (a *Account) NextTransactionID(d civil.Date) string {
	seq := 1
	for _, txn := range a.txns {
		if txn.Date() == d {
			seq++
		}
	}
	return fmt.Sprintf("%s-%02d", shared.FormatDate(d), seq)
}
