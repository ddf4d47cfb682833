package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vpay/vpay-backend/internal/models"
)

// Service issues and validates signed session tokens. It holds no state
// beyond the shared signing secret.
type Service struct {
	secret []byte
}

// NewService creates a token service around the shared signing secret
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Issue produces a signed token carrying the user id as subject,
// expiring after ttl
func (s *Service) Issue(userID int64, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies a token's signature and expiry and returns the subject
// user id. Any failure maps to models.ErrInvalidToken.
func (s *Service) Validate(tokenString string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, models.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, models.ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, models.ErrInvalidToken
	}
	return userID, nil
}
