package models

// User represents a registered user with an in-app balance
type User struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	PasswordHash string  `json:"-"` // Not serialized
	Balance      float64 `json:"balance"`
	CreatedAt    int64   `json:"created_at"`
}
