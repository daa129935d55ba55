package ledger

import "fmt"

// ValidationError reports malformed transaction or rule input, always detected at
// construction time
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches any ValidationError when the target carries no field
func (e ValidationError) Is(target error) bool {
	t, ok := target.(ValidationError)
	if !ok {
		return false
	}
	return t.Field == "" || t.Field == e.Field
}

// InsufficientFundsError indicates a withdrawal larger than the current balance
type InsufficientFundsError struct {
	AccountID string
	Requested Amount
	Available Amount
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: requested %s, available %s",
		e.AccountID, e.Requested, e.Available)
}

// Is implements the errors.Is interface for InsufficientFundsError
func (e InsufficientFundsError) Is(target error) bool {
	t, ok := target.(InsufficientFundsError)
	if !ok {
		return false
	}
	return t.AccountID == "" || t.AccountID == e.AccountID
}

// NotFoundError indicates a reference to an unknown account
type NotFoundError struct {
	AccountID string
}

func (e NotFoundError) Error() string {
	return "account not found: " + e.AccountID
}

// Is implements the errors.Is interface for NotFoundError
func (e NotFoundError) Is(target error) bool {
	t, ok := target.(NotFoundError)
	if !ok {
		return false
	}
	return t.AccountID == "" || t.AccountID == e.AccountID
}
