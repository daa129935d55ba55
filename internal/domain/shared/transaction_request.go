package shared

import "time"

// TransactionRequest defines a Kafka message asking the ledger to record a
// deposit or withdrawal. Fields use the same textual forms as the HTTP API.
type TransactionRequest struct {
	Date          string    `json:"date"`    // yyyyMMdd
	AccountID     string    `json:"account"` // opaque account identifier
	Type          string    `json:"type"`    // D or W
	Amount        string    `json:"amount"`  // decimal, at most 2 places
	CorrelationID string    `json:"correlation_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// InterestRuleRequest defines or replaces the interest rule taking effect on Date
type InterestRuleRequest struct {
	Date   string `json:"date"`    // yyyyMMdd
	RuleID string `json:"rule_id"` // free-form identifier
	Rate   string `json:"rate"`    // annual percent, 0 < rate < 100
}

// LedgerEvent is published after every successful posting or rule change
type LedgerEvent struct {
	EventID       string    `json:"event_id"`
	Type          EventType `json:"type"`
	AccountID     string    `json:"account_id,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Date          string    `json:"date"`
	Kind          string    `json:"kind,omitempty"`
	Amount        string    `json:"amount,omitempty"`
	Balance       string    `json:"balance,omitempty"`
	RuleID        string    `json:"rule_id,omitempty"`
	Rate          string    `json:"rate,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
