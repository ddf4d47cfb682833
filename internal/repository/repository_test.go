package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vpay/vpay-backend/internal/models"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo *Repository
}

func (s *RepositoryTestSuite) SetupTest() {
	repo, err := New(":memory:")
	require.NoError(s.T(), err, "failed to open test database")
	s.repo = repo
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *RepositoryTestSuite) createUser(email string, balance float64) int64 {
	id, err := s.repo.CreateUser(email, "Test User", "hash", balance)
	require.NoError(s.T(), err)
	return id
}

func (s *RepositoryTestSuite) createPending(userID int64, amount float64, ts int64) int64 {
	id, err := s.repo.CreateTransaction(&models.Transaction{
		UserID:    userID,
		Amount:    amount,
		Type:      models.TypeDebit,
		Biller:    "Electricity Board",
		Category:  "Utilities",
		Status:    models.StatusPending,
		Timestamp: ts,
	})
	require.NoError(s.T(), err)
	return id
}

func (s *RepositoryTestSuite) TestCreateAndFindUser() {
	id := s.createUser("a@x.com", 2500)

	byEmail, err := s.repo.FindUserByEmail("a@x.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), id, byEmail.ID)
	assert.Equal(s.T(), 2500.0, byEmail.Balance)
	assert.NotZero(s.T(), byEmail.CreatedAt)

	byID, err := s.repo.FindUserByID(id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "a@x.com", byID.Email)
}

func (s *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	s.createUser("a@x.com", 2500)

	_, err := s.repo.CreateUser("a@x.com", "Other", "hash2", 2500)
	assert.ErrorIs(s.T(), err, models.ErrEmailTaken)
}

func (s *RepositoryTestSuite) TestFindUserNotFound() {
	_, err := s.repo.FindUserByEmail("missing@x.com")
	assert.ErrorIs(s.T(), err, models.ErrNotFound)

	_, err = s.repo.FindUserByID(42)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)
}

func (s *RepositoryTestSuite) TestMigrateIsIdempotent() {
	s.createUser("a@x.com", 2500)
	require.NoError(s.T(), s.repo.migrate())

	user, err := s.repo.FindUserByEmail("a@x.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2500.0, user.Balance)
}

func (s *RepositoryTestSuite) TestAdjustBalance() {
	id := s.createUser("a@x.com", 100)

	require.NoError(s.T(), s.repo.AdjustBalance(id, 50))
	require.NoError(s.T(), s.repo.AdjustBalance(id, -20))

	user, err := s.repo.FindUserByID(id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 130.0, user.Balance)

	assert.ErrorIs(s.T(), s.repo.AdjustBalance(999, 10), models.ErrNotFound)
}

func (s *RepositoryTestSuite) TestCreateAndFindTransaction() {
	userID := s.createUser("a@x.com", 2500)
	txID := s.createPending(userID, 500, 0)

	tx, err := s.repo.FindTransactionByID(txID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), userID, tx.UserID)
	assert.Equal(s.T(), models.StatusPending, tx.Status)
	assert.NotZero(s.T(), tx.Timestamp, "timestamp should default to now")

	_, err = s.repo.FindTransactionByID(999)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)
}

func (s *RepositoryTestSuite) TestSetTransactionStatus() {
	userID := s.createUser("a@x.com", 2500)
	txID := s.createPending(userID, 500, 0)

	require.NoError(s.T(), s.repo.SetTransactionStatus(txID, models.StatusFailed))

	tx, err := s.repo.FindTransactionByID(txID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StatusFailed, tx.Status)

	assert.ErrorIs(s.T(), s.repo.SetTransactionStatus(999, models.StatusSuccess), models.ErrNotFound)
}

func (s *RepositoryTestSuite) TestListTransactionsNewestFirst() {
	userID := s.createUser("a@x.com", 2500)
	base := time.Now().Unix()

	// Insert out of order on purpose
	s.createPending(userID, 10, base+10)
	s.createPending(userID, 30, base+30)
	s.createPending(userID, 20, base+20)

	list, err := s.repo.ListTransactions(userID)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 3)
	assert.Equal(s.T(), 30.0, list[0].Amount)
	assert.Equal(s.T(), 20.0, list[1].Amount)
	assert.Equal(s.T(), 10.0, list[2].Amount)
}

func (s *RepositoryTestSuite) TestListTransactionsScopedToUser() {
	alice := s.createUser("alice@x.com", 2500)
	bob := s.createUser("bob@x.com", 2500)
	s.createPending(alice, 10, 0)
	s.createPending(bob, 20, 0)

	list, err := s.repo.ListTransactions(alice)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), 10.0, list[0].Amount)
}

func (s *RepositoryTestSuite) TestSettleTransaction() {
	userID := s.createUser("a@x.com", 2500)
	txID := s.createPending(userID, 500, 0)

	tx, balance, err := s.repo.SettleTransaction(txID, userID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StatusSuccess, tx.Status)
	assert.Equal(s.T(), 2000.0, balance)

	stored, err := s.repo.FindTransactionByID(txID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StatusSuccess, stored.Status)
}

func (s *RepositoryTestSuite) TestSettleTransactionIdempotent() {
	userID := s.createUser("a@x.com", 2500)
	txID := s.createPending(userID, 500, 0)

	_, _, err := s.repo.SettleTransaction(txID, userID)
	require.NoError(s.T(), err)

	// A second settlement must not debit again
	tx, _, err := s.repo.SettleTransaction(txID, userID)
	assert.ErrorIs(s.T(), err, models.ErrAlreadySettled)
	assert.Equal(s.T(), models.StatusSuccess, tx.Status)

	user, err := s.repo.FindUserByID(userID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2000.0, user.Balance)
}

func (s *RepositoryTestSuite) TestSettleTransactionWrongOwner() {
	alice := s.createUser("alice@x.com", 2500)
	bob := s.createUser("bob@x.com", 2500)
	txID := s.createPending(alice, 500, 0)

	_, _, err := s.repo.SettleTransaction(txID, bob)
	assert.ErrorIs(s.T(), err, models.ErrNotOwner)

	user, err := s.repo.FindUserByID(alice)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2500.0, user.Balance)
}

func (s *RepositoryTestSuite) TestSettleTransactionInsufficientFunds() {
	userID := s.createUser("a@x.com", 100)
	txID := s.createPending(userID, 500, 0)

	_, _, err := s.repo.SettleTransaction(txID, userID)
	assert.ErrorIs(s.T(), err, models.ErrInsufficientFunds)

	// Status and balance are untouched on refusal
	tx, err := s.repo.FindTransactionByID(txID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StatusPending, tx.Status)

	user, err := s.repo.FindUserByID(userID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 100.0, user.Balance)
}

func (s *RepositoryTestSuite) TestSettleTransactionNotFound() {
	userID := s.createUser("a@x.com", 2500)
	_, _, err := s.repo.SettleTransaction(999, userID)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)
}

func (s *RepositoryTestSuite) TestListStalePending() {
	userID := s.createUser("a@x.com", 2500)
	now := time.Now()

	oldID := s.createPending(userID, 100, now.Add(-2*time.Hour).Unix())
	s.createPending(userID, 200, now.Unix())

	settledID := s.createPending(userID, 50, now.Add(-3*time.Hour).Unix())
	require.NoError(s.T(), s.repo.SetTransactionStatus(settledID, models.StatusSuccess))

	stale, err := s.repo.ListStalePending(now.Add(-time.Hour))
	require.NoError(s.T(), err)
	require.Len(s.T(), stale, 1)
	assert.Equal(s.T(), oldID, stale[0].Transaction.ID)
	assert.Equal(s.T(), "a@x.com", stale[0].Email)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
