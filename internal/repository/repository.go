package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vpay/vpay-backend/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// Repository provides database operations over the sqlite file
type Repository struct {
	db *sql.DB
}

// New opens the database at path, runs migrations and returns a repository.
// Use ":memory:" for an ephemeral database in tests.
func New(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writes and keeps ":memory:" databases
	// from being silently re-created per connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &Repository{db: db}
	if err := r.migrate(); err != nil {
		return nil, err
	}
	return r, nil
}

// migrate creates the schema idempotently. Migration is additive only:
// new columns are added with ALTER TABLE and the error is ignored when the
// column already exists.
func (r *Repository) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE,
			name TEXT,
			password_hash TEXT,
			balance REAL DEFAULT 2500.00,
			created_at INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER,
			amount REAL,
			type TEXT,
			biller TEXT,
			category TEXT,
			status TEXT,
			timestamp INTEGER,
			FOREIGN KEY (user_id) REFERENCES users (id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	// Columns added after the first release; older database files miss them.
	_, _ = r.db.Exec(`ALTER TABLE users ADD COLUMN balance REAL DEFAULT 2500.00`)
	_, _ = r.db.Exec(`ALTER TABLE users ADD COLUMN password_hash TEXT`)

	return nil
}

// Close closes the underlying database handle
func (r *Repository) Close() error {
	return r.db.Close()
}

// CreateUser inserts a new user and returns its id.
// Returns models.ErrEmailTaken when the email is already registered.
func (r *Repository) CreateUser(email, name, passwordHash string, balance float64) (int64, error) {
	res, err := r.db.Exec(
		`INSERT INTO users (email, name, password_hash, balance, created_at) VALUES (?, ?, ?, ?, ?)`,
		email, name, passwordHash, balance, time.Now().Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, models.ErrEmailTaken
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return id, nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	row := r.db.QueryRow(
		`SELECT id, email, name, password_hash, balance, created_at FROM users WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	row := r.db.QueryRow(
		`SELECT id, email, name, password_hash, balance, created_at FROM users WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Balance, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// AdjustBalance applies an unconditional arithmetic delta to a user's balance
func (r *Repository) AdjustBalance(userID int64, delta float64) error {
	res, err := r.db.Exec(`UPDATE users SET balance = balance + ? WHERE id = ?`, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CreateTransaction inserts a transaction row and returns its id
func (r *Repository) CreateTransaction(t *models.Transaction) (int64, error) {
	if t.Timestamp == 0 {
		t.Timestamp = time.Now().Unix()
	}
	res, err := r.db.Exec(
		`INSERT INTO transactions (user_id, amount, type, biller, category, status, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Amount, t.Type, t.Biller, t.Category, t.Status, t.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read transaction id: %w", err)
	}
	t.ID = id
	return id, nil
}

// FindTransactionByID retrieves a transaction by id
func (r *Repository) FindTransactionByID(id int64) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := r.db.QueryRow(
		`SELECT id, user_id, amount, type, biller, category, status, timestamp FROM transactions WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Biller, &t.Category, &t.Status, &t.Timestamp)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return t, nil
}

// SetTransactionStatus updates a transaction's status field
func (r *Repository) SetTransactionStatus(id int64, status string) error {
	res, err := r.db.Exec(`UPDATE transactions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SettleTransaction finalizes a pending debit: it flips the status to
// success and debits the owner's balance in a single database transaction.
// It returns the settled transaction and the resulting balance.
//
// The status transition is guarded, so a repeated call returns
// models.ErrAlreadySettled and leaves the balance untouched. The debit
// refuses to drive the balance below zero.
func (r *Repository) SettleTransaction(txID, userID int64) (*models.Transaction, float64, error) {
	dbTx, err := r.db.Begin()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin settlement: %w", err)
	}
	defer dbTx.Rollback()

	t := &models.Transaction{}
	err = dbTx.QueryRow(
		`SELECT id, user_id, amount, type, biller, category, status, timestamp FROM transactions WHERE id = ?`,
		txID,
	).Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Biller, &t.Category, &t.Status, &t.Timestamp)
	if err == sql.ErrNoRows {
		return nil, 0, models.ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load transaction: %w", err)
	}

	if t.UserID != userID {
		return nil, 0, models.ErrNotOwner
	}
	switch t.Status {
	case models.StatusSuccess:
		return t, 0, models.ErrAlreadySettled
	case models.StatusPending:
		// proceed
	default:
		return nil, 0, models.ErrNotFound
	}

	res, err := dbTx.Exec(
		`UPDATE users SET balance = balance - ? WHERE id = ? AND balance >= ?`,
		t.Amount, userID, t.Amount,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to debit balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to debit balance: %w", err)
	}
	if n == 0 {
		return nil, 0, models.ErrInsufficientFunds
	}

	if _, err := dbTx.Exec(
		`UPDATE transactions SET status = ? WHERE id = ? AND status = ?`,
		models.StatusSuccess, txID, models.StatusPending,
	); err != nil {
		return nil, 0, fmt.Errorf("failed to update transaction status: %w", err)
	}

	var balance float64
	if err := dbTx.QueryRow(`SELECT balance FROM users WHERE id = ?`, userID).Scan(&balance); err != nil {
		return nil, 0, fmt.Errorf("failed to read balance: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit settlement: %w", err)
	}

	t.Status = models.StatusSuccess
	return t, balance, nil
}

// ListTransactions retrieves all transactions for a user, newest first
func (r *Repository) ListTransactions(userID int64) ([]models.Transaction, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, amount, type, biller, category, status, timestamp
		 FROM transactions WHERE user_id = ? ORDER BY timestamp DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var list []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Biller, &t.Category, &t.Status, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// PendingReminder pairs a stale pending transaction with its owner's contact details
type PendingReminder struct {
	Transaction models.Transaction
	Email       string
	Name        string
}

// ListStalePending returns pending transactions created before cutoff,
// joined with the owning user, oldest first
func (r *Repository) ListStalePending(cutoff time.Time) ([]PendingReminder, error) {
	rows, err := r.db.Query(
		`SELECT t.id, t.user_id, t.amount, t.type, t.biller, t.category, t.status, t.timestamp, u.email, u.name
		 FROM transactions t JOIN users u ON t.user_id = u.id
		 WHERE t.status = ? AND t.timestamp < ? ORDER BY t.timestamp ASC`,
		models.StatusPending, cutoff.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	defer rows.Close()

	var list []PendingReminder
	for rows.Next() {
		var p PendingReminder
		t := &p.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Biller, &t.Category, &t.Status, &t.Timestamp, &p.Email, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan pending transaction: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
