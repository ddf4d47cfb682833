package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vpay/vpay-backend/internal/middleware"
	"github.com/vpay/vpay-backend/internal/models"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
		return
	}

	token, user, err := h.accounts.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, authResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        summarize(user),
	})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput))
		return
	}

	token, user, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, authResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        summarize(user),
	})
}

// Me returns the authenticated user with a freshly read balance
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respondError(w, models.ErrInvalidToken)
		return
	}
	h.respondJSON(w, http.StatusOK, summarize(user))
}

// Transactions lists the authenticated user's transactions, newest first
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respondError(w, models.ErrInvalidToken)
		return
	}

	list, err := h.accounts.Transactions(user.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, list)
}
