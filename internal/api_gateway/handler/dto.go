package handler

// CreateTransactionRequest represents a request to record a deposit or withdrawal
type CreateTransactionRequest struct {
	Date    string `json:"date" binding:"required,len=8,numeric"`
	Account string `json:"account" binding:"required"`
	Type    string `json:"type" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// TransactionResponse represents a posted transaction
type TransactionResponse struct {
	Date          string `json:"date"`
	TransactionID string `json:"transaction_id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
}

// StatementLineResponse is a transaction with the balance after it
type StatementLineResponse struct {
	TransactionResponse
	Balance string `json:"balance"`
}

// RecordTransactionResponse is returned after a successful posting
type RecordTransactionResponse struct {
	AccountID   string                  `json:"account_id"`
	Transaction TransactionResponse     `json:"transaction"`
	Balance     string                  `json:"balance"`
	Statement   []StatementLineResponse `json:"statement"`
}

// StatementResponse represents an account statement, optionally restricted to a month
type StatementResponse struct {
	AccountID      string                  `json:"account_id"`
	Month          string                  `json:"month,omitempty"`
	OpeningBalance string                  `json:"opening_balance,omitempty"`
	Balance        string                  `json:"balance"`
	Lines          []StatementLineResponse `json:"lines"`
}

// MonthlyStatementRequest asks for interest to be applied for Month (yyyyMM)
type MonthlyStatementRequest struct {
	Month string `json:"month" binding:"required,len=6,numeric"`
}

// MonthlyStatementResponse is the month's statement after interest was applied
type MonthlyStatementResponse struct {
	StatementResponse
	Interest      *TransactionResponse `json:"interest,omitempty"`
	ExactInterest string               `json:"exact_interest"`
	UncoveredDays int                  `json:"uncovered_days,omitempty"`
	Periods       []PeriodResponse     `json:"periods"`
}

// PeriodResponse is one constant balance and rate run inside a month
type PeriodResponse struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Days    int    `json:"days"`
	Balance string `json:"balance"`
	RuleID  string `json:"rule_id,omitempty"`
	Rate    string `json:"rate"`
}

// CreateInterestRuleRequest defines or replaces the rule for a date
type CreateInterestRuleRequest struct {
	Date   string `json:"date" binding:"required,len=8,numeric"`
	RuleID string `json:"rule_id" binding:"required"`
	Rate   string `json:"rate" binding:"required"`
}

// InterestRuleResponse represents an interest rule
type InterestRuleResponse struct {
	Date   string `json:"date"`
	RuleID string `json:"rule_id"`
	Rate   string `json:"rate"`
}

// AccrualRequest triggers month-end interest for all accounts
type AccrualRequest struct {
	Month string `json:"month" binding:"required,len=6,numeric"`
}

// AccrualResultResponse is the outcome for one account
type AccrualResultResponse struct {
	AccountID     string `json:"account_id"`
	Interest      string `json:"interest"`
	TransactionID string `json:"transaction_id,omitempty"`
	UncoveredDays int    `json:"uncovered_days,omitempty"`
	Error         string `json:"error,omitempty"`
}

// AccrualResponse summarizes a month-end run
type AccrualResponse struct {
	Month         string                  `json:"month"`
	Posted        int                     `json:"posted"`
	Failed        int                     `json:"failed"`
	TotalInterest string                  `json:"total_interest"`
	Results       []AccrualResultResponse `json:"results"`
}
