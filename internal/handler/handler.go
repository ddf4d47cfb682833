package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vpay/vpay-backend/internal/models"
	"github.com/vpay/vpay-backend/internal/service"
	"github.com/vpay/vpay-backend/internal/speech"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	accounts   *service.AccountService
	payments   *service.PaymentService
	recognizer *speech.Recognizer
	log        *logrus.Logger
}

// NewHandler creates a new Handler
func NewHandler(accounts *service.AccountService, payments *service.PaymentService, recognizer *speech.Recognizer, log *logrus.Logger) *Handler {
	return &Handler{accounts: accounts, payments: payments, recognizer: recognizer, log: log}
}

// userSummary is the wire shape of a user in auth responses
type userSummary struct {
	ID      int64   `json:"id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

func summarize(u *models.User) userSummary {
	return userSummary{ID: u.ID, Email: u.Email, Name: u.Name, Balance: u.Balance}
}

type authResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        userSummary `json:"user"`
}

// Root reports that the API is up
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Vpay API is running"})
}

// Health is the liveness endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

// respondError maps domain errors to HTTP statuses in one place.
// Unrecognized errors become a generic 500 so internal details never
// reach the client.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := "Internal server error"

	switch {
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrNotOwner),
		errors.Is(err, models.ErrAmountMismatch):
		status = http.StatusBadRequest
		detail = err.Error()
	case errors.Is(err, models.ErrEmailTaken):
		status = http.StatusConflict
		detail = err.Error()
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrInvalidToken):
		status = http.StatusUnauthorized
		detail = err.Error()
	default:
		h.log.Errorf("Internal error: %v", err)
	}

	h.respondJSON(w, status, map[string]string{"detail": detail})
}
