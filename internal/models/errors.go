package models

import "errors"

// Domain errors shared across the repository, service and handler layers.
// Handlers map these to HTTP status codes in one place.
var (
	ErrNotFound           = errors.New("record not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrNotOwner           = errors.New("transaction does not belong to user")
	ErrAmountMismatch     = errors.New("amount does not match transaction")
	ErrAlreadySettled     = errors.New("transaction already settled")
)
