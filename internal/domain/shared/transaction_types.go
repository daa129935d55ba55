package shared

import (
	"errors"
	"strings"
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// TransactionType defines the kinds of ledger postings
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "D"
	TransactionTypeWithdrawal TransactionType = "W"
	TransactionTypeInterest   TransactionType = "I"
)

// IsValid reports whether t is one of the defined posting kinds
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeInterest:
		return true
	}
	return false
}

// Sign returns +1 for postings that increase the balance and -1 for withdrawals
func (t TransactionType) Sign() int64 {
	if t == TransactionTypeWithdrawal {
		return -1
	}
	return 1
}

// ParseTransactionType maps user input ("D", "w", ...) to a TransactionType.
// Interest postings are produced by the engine only, so "I" is rejected here.
func ParseTransactionType(raw string) (TransactionType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "D":
		return TransactionTypeDeposit, nil
	case "W":
		return TransactionTypeWithdrawal, nil
	default:
		return "", ErrInvalidTransactionType
	}
}

// EventType identifies messages published on the ledger events topic
type EventType string

const (
	EventTypeTransactionPosted EventType = "transaction.posted"
	EventTypeInterestPosted    EventType = "interest.posted"
	EventTypeRuleDefined       EventType = "rule.defined"
)

// StorageBackend selects where the ledger journal lives
type StorageBackend string

const (
	StorageBackendMemory   StorageBackend = "memory"
	StorageBackendDatabase StorageBackend = "database"
)

// IsValid checks if the storage backend is supported
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendMemory, StorageBackendDatabase:
		return true
	default:
		return false
	}
}
