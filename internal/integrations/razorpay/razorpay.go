package razorpay

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vpay/vpay-backend/internal/config"
	"github.com/vpay/vpay-backend/internal/models"
)

// Client handles integration with the Razorpay payment gateway.
//
// The gateway is an external collaborator and this deployment runs it
// mocked: CreateOrder fabricates the order object the real API would
// return, while keeping the credential pair and HTTP plumbing a live
// client needs.
type Client struct {
	keyID     string
	keySecret string
	client    *http.Client
	log       *logrus.Logger
}

// NewClient initializes a new Razorpay client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		keyID:     cfg.RazorpayKeyID,
		keySecret: cfg.RazorpaySecret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// CreateOrder returns a gateway order for the given pending transaction.
// The gateway expresses amounts in minor currency units.
func (c *Client) CreateOrder(transactionID int64, amount float64, currency string) *models.Order {
	order := &models.Order{
		ID:            fmt.Sprintf("order_mock_%d", transactionID),
		Amount:        amount * 100,
		Currency:      currency,
		Status:        "created",
		Receipt:       uuid.NewString(),
		TransactionID: transactionID,
	}
	c.log.Debugf("Mocked gateway order %s for transaction %d", order.ID, transactionID)
	return order
}
