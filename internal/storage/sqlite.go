package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/sprout/internal/metrics"
	"github.com/Veraticus/sprout/internal/service"
	"github.com/google/uuid"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// timestampLayout matches the ISO-8601 form the ledger has always stored.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// SQLiteStorage owns the embedded database handle and the repositories built on it.
// Foreign keys are declared in the schema but not enforced: deleting a category or
// payment method that transactions still reference leaves those references dangling.
type SQLiteStorage struct {
	db      *sql.DB
	q       queryable
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
	dbPath  string

	categories     *CategoryRepository
	paymentMethods *PaymentMethodRepository
	profile        *UserProfileRepository
	transactions   *TransactionRepository
	budgets        *BudgetRepository
	goals          *GoalRepository
}

// Option configures a SQLiteStorage.
type Option func(*SQLiteStorage)

// WithMetrics records statement timings in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SQLiteStorage) {
		s.metrics = m
	}
}

// WithClock replaces the wall clock used for created/updated timestamps and demo dates.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStorage) {
		s.now = now
	}
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string, opts ...Option) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=off")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writes and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.q = instrumented{q: db, m: s.metrics}

	s.categories = &CategoryRepository{s: s}
	s.paymentMethods = &PaymentMethodRepository{s: s}
	s.profile = &UserProfileRepository{s: s}
	s.transactions = &TransactionRepository{s: s}
	s.budgets = &BudgetRepository{s: s}
	s.goals = &GoalRepository{s: s}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the database file the storage was opened on.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Categories returns the category repository.
func (s *SQLiteStorage) Categories() *CategoryRepository { return s.categories }

// PaymentMethods returns the payment method repository.
func (s *SQLiteStorage) PaymentMethods() *PaymentMethodRepository { return s.paymentMethods }

// Profile returns the user profile repository.
func (s *SQLiteStorage) Profile() *UserProfileRepository { return s.profile }

// Transactions returns the transaction repository, which also serves the period aggregates.
func (s *SQLiteStorage) Transactions() *TransactionRepository { return s.transactions }

// Budgets returns the budget repository.
func (s *SQLiteStorage) Budgets() *BudgetRepository { return s.budgets }

// Goals returns the goal repository.
func (s *SQLiteStorage) Goals() *GoalRepository { return s.goals }

// withTx runs fn inside a database transaction, committing only if fn succeeds.
func (s *SQLiteStorage) withTx(ctx context.Context, fn func(q queryable) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(instrumented{q: tx, m: s.metrics}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// timestamp returns the current time at the precision timestamps are stored with.
func (s *SQLiteStorage) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(value string) (time.Time, error) {
	// SQLite's datetime('now') default uses the space-separated form.
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func parseTimestamps(createdAt, updatedAt *time.Time, created, updated string) error {
	var err error
	if *createdAt, err = parseTimestamp(created); err != nil {
		return err
	}
	if *updatedAt, err = parseTimestamp(updated); err != nil {
		return err
	}
	return nil
}

// queryable is satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// instrumented times every statement it forwards.
type instrumented struct {
	q queryable
	m *metrics.Metrics
}

func (i instrumented) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	started := time.Now()
	rows, err := i.q.QueryContext(ctx, query, args...)
	i.m.ObserveStatement(statementVerb(query), started, err)
	return rows, err
}

func (i instrumented) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	started := time.Now()
	row := i.q.QueryRowContext(ctx, query, args...)
	i.m.ObserveStatement(statementVerb(query), started, row.Err())
	return row
}

func (i instrumented) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	started := time.Now()
	result, err := i.q.ExecContext(ctx, query, args...)
	i.m.ObserveStatement(statementVerb(query), started, err)
	return result, err
}

func statementVerb(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

var (
	_ service.Lifecycle               = (*SQLiteStorage)(nil)
	_ service.Advisor                 = (*SQLiteStorage)(nil)
	_ service.CategoryRepository      = (*CategoryRepository)(nil)
	_ service.PaymentMethodRepository = (*PaymentMethodRepository)(nil)
	_ service.UserProfileRepository   = (*UserProfileRepository)(nil)
	_ service.TransactionRepository   = (*TransactionRepository)(nil)
	_ service.BudgetRepository        = (*BudgetRepository)(nil)
	_ service.GoalRepository          = (*GoalRepository)(nil)
)
