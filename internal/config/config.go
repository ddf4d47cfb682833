package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port            string
	DBPath          string
	LogLevel        string
	JWTSecret       string
	TokenTTL        time.Duration
	StartingBalance float64
	RazorpayKeyID   string
	RazorpaySecret  string
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	SenderEmail     string
	CORSOrigins     []string
	ReminderSpec    string
	PendingMaxAge   time.Duration
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	balance, err := strconv.ParseFloat(getEnv("STARTING_BALANCE", "2500.00"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid STARTING_BALANCE: %w", err)
	}

	pendingMaxAge, err := time.ParseDuration(getEnv("PENDING_MAX_AGE", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PENDING_MAX_AGE: %w", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8000"),
		DBPath:          getEnv("DB_PATH", "vpay.db"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:       getEnv("SECRET_KEY", "your-super-secret-key-change-this"),
		TokenTTL:        ttl,
		StartingBalance: balance,
		RazorpayKeyID:   getEnv("RAZORPAY_KEY_ID", ""),
		RazorpaySecret:  getEnv("RAZORPAY_KEY_SECRET", ""),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SenderEmail:     getEnv("SENDER_EMAIL", "no-reply@vpay.local"),
		CORSOrigins:     []string{getEnv("FRONTEND_ORIGIN", "http://localhost:5173"), "http://127.0.0.1:5173"},
		ReminderSpec:    getEnv("REMINDER_SCHEDULE", "@hourly"),
		PendingMaxAge:   pendingMaxAge,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("DB_PATH is required")
	}

	return cfg, nil
}

// EmailEnabled reports whether SMTP is configured for outbound mail
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
