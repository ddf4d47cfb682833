package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpay/vpay-backend/internal/models"
)

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	tokenString, user, err := env.accounts.Signup("A", "a@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, 2500.00, user.Balance)
	assert.Equal(t, "a@x.com", user.Email)

	// The token resolves back to the created user
	userID, err := env.tokens.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// The password is stored hashed, never in the clear
	stored, err := env.repo.FindUserByID(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "p", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestSignupNormalizesEmail(t *testing.T) {
	env := newTestEnv(t)

	_, user, err := env.accounts.Signup("A", "  A@X.Com ", "p")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestSignupDuplicateEmailCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.accounts.Signup("A", "a@x.com", "p")
	require.NoError(t, err)

	_, _, err = env.accounts.Signup("B", "A@X.COM", "q")
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestSignupRejectsEmptyFields(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct{ name, email, password string }{
		{"", "a@x.com", "p"},
		{"A", "", "p"},
		{"A", "a@x.com", ""},
		{"  ", "a@x.com", "p"},
	}
	for _, c := range cases {
		_, _, err := env.accounts.Signup(c.name, c.email, c.password)
		assert.ErrorIs(t, err, models.ErrInvalidInput, "name=%q email=%q", c.name, c.email)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	_, created, err := env.accounts.Signup("A", "a@x.com", "p")
	require.NoError(t, err)

	tokenString, user, err := env.accounts.Login("a@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	userID, err := env.tokens.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.accounts.Signup("A", "a@x.com", "p")
	require.NoError(t, err)

	_, _, err = env.accounts.Login("a@x.com", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.accounts.Login("missing@x.com", "p")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestCurrentUserReadsFreshBalance(t *testing.T) {
	env := newTestEnv(t)

	_, created, err := env.accounts.Signup("A", "a@x.com", "p")
	require.NoError(t, err)

	require.NoError(t, env.repo.AdjustBalance(created.ID, -300))

	user, err := env.accounts.CurrentUser(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2200.00, user.Balance, "balance must be read fresh, not from the signup snapshot")
}

func TestTransactionsEmptyList(t *testing.T) {
	env := newTestEnv(t)

	_, created, err := env.accounts.Signup("A", "a@x.com", "p")
	require.NoError(t, err)

	list, err := env.accounts.Transactions(created.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
