package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vpay/vpay-backend/internal/middleware"
	"github.com/vpay/vpay-backend/internal/models"
)

type createOrderRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Biller   string  `json:"biller"`
	Category string  `json:"category"`
}

type verifyPaymentRequest struct {
	TransactionID int64   `json:"transaction_id"`
	Amount        float64 `json:"amount"`
}

// CreateOrder records a pending debit and returns a gateway order for it
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respondError(w, models.ErrInvalidToken)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
		return
	}

	order, err := h.payments.CreateOrder(user.ID, req.Amount, req.Currency, req.Biller, req.Category)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, order)
}

// VerifyPayment settles a pending transaction and debits the balance.
// A repeated call for the same transaction is a no-op success.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respondError(w, models.ErrInvalidToken)
		return
	}

	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
		return
	}
	if req.TransactionID == 0 || req.Amount == 0 {
		h.respondError(w, fmt.Errorf("%w: transaction id and amount required", models.ErrInvalidInput))
		return
	}

	if _, err := h.payments.VerifyPayment(user.ID, req.TransactionID, req.Amount); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Payment verified and balance updated",
	})
}
