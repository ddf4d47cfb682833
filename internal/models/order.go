package models

// Order represents a payment-gateway order referencing a pending transaction.
// Amount is in minor currency units (e.g. paise), the gateway's convention.
type Order struct {
	ID            string  `json:"id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	Receipt       string  `json:"receipt"`
	TransactionID int64   `json:"transaction_id"`
}
