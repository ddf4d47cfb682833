package models

// Transaction directions
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Transaction statuses
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Transaction represents a financial transaction on a user's balance
type Transaction struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"-"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Biller    string  `json:"biller"`
	Category  string  `json:"category"`
	Status    string  `json:"status"`
	Timestamp int64   `json:"timestamp"`
}
