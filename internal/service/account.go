package service

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vpay/vpay-backend/internal/config"
	"github.com/vpay/vpay-backend/internal/metrics"
	"github.com/vpay/vpay-backend/internal/models"
	"github.com/vpay/vpay-backend/internal/repository"
	"github.com/vpay/vpay-backend/internal/token"
)

// AccountService handles signup, login and account queries
type AccountService struct {
	repo    *repository.Repository
	tokens  *token.Service
	metrics *metrics.Collector
	log     *logrus.Logger
	config  *config.Config
}

// NewAccountService initializes a new account service
func NewAccountService(repo *repository.Repository, tokens *token.Service, collector *metrics.Collector, log *logrus.Logger, cfg *config.Config) *AccountService {
	return &AccountService{repo: repo, tokens: tokens, metrics: collector, log: log, config: cfg}
}

// NormalizeEmail trims whitespace and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new user with a hashed password and a starting
// balance, and issues a session token
func (s *AccountService) Signup(name, email, password string) (string, *models.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: name, email and password required", models.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.repo.CreateUser(email, name, string(hashed), s.config.StartingBalance)
	if err != nil {
		return "", nil, err
	}

	tokenString, err := s.tokens.Issue(id, s.config.TokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user := &models.User{
		ID:      id,
		Email:   email,
		Name:    name,
		Balance: s.config.StartingBalance,
	}

	s.metrics.RecordSignup()
	s.log.Infof("User registered: %s", email)
	return tokenString, user, nil
}

// Login authenticates a user by email and password and issues a session
// token. Absent user and wrong password produce the same error.
func (s *AccountService) Login(email, password string) (string, *models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password required", models.ErrInvalidInput)
	}

	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		s.metrics.RecordLogin(false)
		return "", nil, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.RecordLogin(false)
		return "", nil, models.ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Issue(user.ID, s.config.TokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.RecordLogin(true)
	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, user, nil
}

// CurrentUser resolves a user id to the live user row, so the balance is
// always fresh at read time
func (s *AccountService) CurrentUser(userID int64) (*models.User, error) {
	return s.repo.FindUserByID(userID)
}

// Transactions lists a user's transactions, newest first
func (s *AccountService) Transactions(userID int64) ([]models.Transaction, error) {
	list, err := s.repo.ListTransactions(userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Transaction{}
	}
	return list, nil
}
