package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/vpay/vpay-backend/internal/models"
	"github.com/vpay/vpay-backend/internal/repository"
	"github.com/vpay/vpay-backend/internal/token"
)

// Context key type to avoid collisions
type contextKey string

const userContextKey contextKey = "user"

// UserFromContext retrieves the authenticated user from request context
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// Auth validates the bearer token and resolves it to the live user row,
// which is stored in the request context. 401 on any failure.
func Auth(tokens *token.Service, repo *repository.Repository) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}
			tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if tokenString == "" {
				unauthorized(w)
				return
			}

			userID, err := tokens.Validate(tokenString)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := repo.FindUserByID(userID)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
}
