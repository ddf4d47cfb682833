package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "vpay.db", cfg.DBPath)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 2500.00, cfg.StartingBalance)
	assert.Equal(t, "@hourly", cfg.ReminderSpec)
	assert.False(t, cfg.EmailEnabled())
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SECRET_KEY", "prod-secret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("STARTING_BALANCE", "100.50")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 100.50, cfg.StartingBalance)
	assert.True(t, cfg.EmailEnabled())
}

func TestNewConfigInvalidValues(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")
	_, err := NewConfig()
	assert.Error(t, err)
}

func TestNewConfigInvalidBalance(t *testing.T) {
	t.Setenv("STARTING_BALANCE", "lots")
	_, err := NewConfig()
	assert.Error(t, err)
}
