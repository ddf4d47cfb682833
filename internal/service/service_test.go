package service

import (
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vpay/vpay-backend/internal/config"
	"github.com/vpay/vpay-backend/internal/integrations/razorpay"
	"github.com/vpay/vpay-backend/internal/metrics"
	"github.com/vpay/vpay-backend/internal/repository"
	"github.com/vpay/vpay-backend/internal/token"
)

type testEnv struct {
	repo     *repository.Repository
	tokens   *token.Service
	accounts *AccountService
	payments *PaymentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := repository.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		TokenTTL:        time.Hour,
		StartingBalance: 2500.00,
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	collector := metrics.NewCollector(prometheus.NewRegistry())
	tokens := token.NewService(cfg.JWTSecret)
	gateway := razorpay.NewClient(cfg, logger)

	return &testEnv{
		repo:     repo,
		tokens:   tokens,
		accounts: NewAccountService(repo, tokens, collector, logger, cfg),
		payments: NewPaymentService(repo, gateway, nil, collector, logger, cfg),
	}
}
