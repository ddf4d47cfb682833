package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vpay/vpay-backend/internal/config"
	"github.com/vpay/vpay-backend/internal/integrations/razorpay"
	"github.com/vpay/vpay-backend/internal/metrics"
	"github.com/vpay/vpay-backend/internal/models"
	"github.com/vpay/vpay-backend/internal/repository"
	"github.com/vpay/vpay-backend/internal/utils/email"
)

// Defaults applied when the client omits order fields
const (
	DefaultCurrency = "INR"
	DefaultBiller   = "Merchant"
	DefaultCategory = "General"
)

// PaymentService handles the order/settlement flow. Balance mutations for
// a given user are serialized through a per-user mutex.
type PaymentService struct {
	repo    *repository.Repository
	gateway *razorpay.Client
	mailer  *email.Sender
	metrics *metrics.Collector
	log     *logrus.Logger
	config  *config.Config

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

// NewPaymentService initializes a new payment service. mailer may be nil
// when outbound email is not configured.
func NewPaymentService(repo *repository.Repository, gateway *razorpay.Client, mailer *email.Sender, collector *metrics.Collector, log *logrus.Logger, cfg *config.Config) *PaymentService {
	return &PaymentService{
		repo:      repo,
		gateway:   gateway,
		mailer:    mailer,
		metrics:   collector,
		log:       log,
		config:    cfg,
		userLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *PaymentService) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// CreateOrder records a pending debit transaction and returns a gateway
// order referencing it. The balance check reads the live user row, not a
// snapshot taken at token resolution.
func (s *PaymentService) CreateOrder(userID int64, amount float64, currency, biller, category string) (*models.Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount is required", models.ErrInvalidInput)
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	if biller == "" {
		biller = DefaultBiller
	}
	if category == "" {
		category = DefaultCategory
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	if amount > user.Balance {
		return nil, models.ErrInsufficientFunds
	}

	tx := &models.Transaction{
		UserID:   userID,
		Amount:   amount,
		Type:     models.TypeDebit,
		Biller:   biller,
		Category: category,
		Status:   models.StatusPending,
	}
	txID, err := s.repo.CreateTransaction(tx)
	if err != nil {
		return nil, err
	}

	order := s.gateway.CreateOrder(txID, amount, currency)

	s.metrics.RecordOrderCreated()
	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": txID,
		"order_id":       order.ID,
		"amount":         amount,
	}).Info("Order created")
	return order, nil
}

// VerifyPayment settles a pending transaction: the debit amount is derived
// from the stored row, ownership is checked, and a repeated call is a
// no-op instead of a double debit. amount is the caller-echoed value and
// must match the stored one.
func (s *PaymentService) VerifyPayment(userID, txID int64, amount float64) (*models.Transaction, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.repo.FindTransactionByID(txID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, models.ErrNotOwner
	}
	if amount != tx.Amount {
		return nil, models.ErrAmountMismatch
	}

	settled, balance, err := s.repo.SettleTransaction(txID, userID)
	if errors.Is(err, models.ErrAlreadySettled) {
		s.log.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": txID,
		}).Info("Repeated payment verification ignored")
		return settled, nil
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPaymentSettled()
	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": txID,
		"amount":         settled.Amount,
		"balance":        balance,
	}).Info("Payment verified")

	if s.mailer != nil {
		user, err := s.repo.FindUserByID(userID)
		if err == nil {
			go func() {
				if err := s.mailer.SendPaymentReceipt(user.Email, user.Name, settled, balance); err != nil {
					s.log.Warnf("Failed to send payment receipt for transaction %d: %v", settled.ID, err)
				}
			}()
		}
	}

	return settled, nil
}
