package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/sprout/internal/aggregate"
	"github.com/Veraticus/sprout/internal/model"
)

const (
	// DefaultPageSize is the page length GetAll uses when no limit is given.
	DefaultPageSize = 50
	// DefaultRecentLimit is the number of rows GetRecent returns when no limit is given.
	DefaultRecentLimit = 5
)

const transactionSelect = `
	SELECT t.id, t.type, t.amount, t.category_id, t.date, t.note, t.payment_method_id,
		t.created_at, t.updated_at,
		COALESCE(c.name, ''), COALESCE(c.icon, ''), COALESCE(c.color, '')
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id`

const transactionOrder = ` ORDER BY t.date DESC, t.created_at DESC`

// TransactionRepository persists transactions and computes the period aggregates over them.
type TransactionRepository struct {
	s *SQLiteStorage
}

// Create records a new transaction and returns it.
func (r *TransactionRepository) Create(ctx context.Context, input model.TransactionInput) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}

	now := r.s.timestamp()
	txn := &model.Transaction{
		ID:              r.s.newID(),
		Type:            input.Type,
		Amount:          input.Amount,
		CategoryID:      input.CategoryID,
		Date:            input.Date,
		Note:            input.Note,
		PaymentMethodID: input.PaymentMethodID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := insertTransaction(ctx, r.s.q, txn); err != nil {
		return nil, err
	}

	slog.Debug("created transaction", "id", txn.ID, "type", txn.Type, "date", txn.Date)
	return txn, nil
}

// Update changes the fields present in patch and refreshes updated_at.
func (r *TransactionRepository) Update(ctx context.Context, id string, patch model.TransactionPatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var set columnSet
	if patch.Type != nil {
		set.add("type", string(*patch.Type))
	}
	if patch.Amount != nil {
		if err := validateAmount(*patch.Amount); err != nil {
			return err
		}
		set.add("amount", *patch.Amount)
	}
	setIfPresent(&set, "category_id", patch.CategoryID)
	setIfPresent(&set, "date", patch.Date)
	setIfPresent(&set, "note", patch.Note)
	setIfPresent(&set, "payment_method_id", patch.PaymentMethodID)
	set.add("updated_at", formatTimestamp(r.s.timestamp()))

	if err := updateRow(ctx, r.s.q, "transactions", id, set); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if err := deleteRow(ctx, r.s.q, "transactions", id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// GetByID returns the transaction with the given id, or nil if there is none.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*model.TransactionWithCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	txn, err := scanTransaction(r.s.q.QueryRowContext(ctx, transactionSelect+` WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetAll returns one page of transactions, newest first. A non-positive limit
// selects DefaultPageSize.
func (r *TransactionRepository) GetAll(ctx context.Context, limit, offset int) ([]model.TransactionWithCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	offset = max(offset, 0)

	return r.query(ctx, transactionSelect+transactionOrder+` LIMIT ? OFFSET ?`, limit, offset)
}

// List returns every transaction, newest first.
func (r *TransactionRepository) List(ctx context.Context) ([]model.TransactionWithCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return r.query(ctx, transactionSelect+transactionOrder)
}

// GetByDateRange returns the transactions dated between start and end inclusive, newest first.
func (r *TransactionRepository) GetByDateRange(ctx context.Context, start, end string) ([]model.TransactionWithCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	return r.query(ctx, transactionSelect+` WHERE t.date BETWEEN ? AND ?`+transactionOrder, start, end)
}

// GetByMonth returns the transactions of one calendar month, newest first.
func (r *TransactionRepository) GetByMonth(ctx context.Context, month, year int) ([]model.TransactionWithCategory, error) {
	p, err := validatePeriod(month, year)
	if err != nil {
		return nil, err
	}
	return r.GetByDateRange(ctx, p.Start(), p.End())
}

// GetRecent returns the newest transactions. A non-positive limit selects DefaultRecentLimit.
func (r *TransactionRepository) GetRecent(ctx context.Context, limit int) ([]model.TransactionWithCategory, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return r.GetAll(ctx, limit, 0)
}

// GetCount returns the number of stored transactions.
func (r *TransactionRepository) GetCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := r.s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// GetMonthSummary totals income and expense for one calendar month.
func (r *TransactionRepository) GetMonthSummary(ctx context.Context, month, year int) (model.MonthSummary, error) {
	p, rows, err := r.periodRows(ctx, month, year)
	if err != nil {
		return model.MonthSummary{}, err
	}
	return aggregate.MonthSummary(p, rows), nil
}

// GetCategoryBreakdown splits one month's transactions of type t by category,
// largest amount first. An empty t selects expenses.
func (r *TransactionRepository) GetCategoryBreakdown(ctx context.Context, month, year int, t model.TransactionType) ([]model.CategoryBreakdown, error) {
	if t == "" {
		t = model.TransactionTypeExpense
	}
	if err := validateType(t); err != nil {
		return nil, err
	}

	p, rows, err := r.periodRows(ctx, month, year)
	if err != nil {
		return nil, err
	}
	return aggregate.CategoryBreakdown(p, t, rows), nil
}

// GetDailySpending returns one month's expense total per day, in date order.
func (r *TransactionRepository) GetDailySpending(ctx context.Context, month, year int) ([]model.DailySpending, error) {
	p, rows, err := r.periodRows(ctx, month, year)
	if err != nil {
		return nil, err
	}
	return aggregate.DailySpending(p, rows), nil
}

// GetMonthlyReport condenses one calendar month into a report.
func (r *TransactionRepository) GetMonthlyReport(ctx context.Context, month, year int) (model.MonthlyReport, error) {
	p, rows, err := r.periodRows(ctx, month, year)
	if err != nil {
		return model.MonthlyReport{}, err
	}
	return aggregate.MonthlyReport(p, rows), nil
}

// GetSpentByCategory sums one category's expenses in a calendar month.
func (r *TransactionRepository) GetSpentByCategory(ctx context.Context, categoryID string, month, year int) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	p, err := validatePeriod(month, year)
	if err != nil {
		return 0, err
	}

	var spent float64
	err = r.s.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE category_id = ? AND type = 'expense' AND date BETWEEN ? AND ?`,
		categoryID, p.Start(), p.End()).Scan(&spent)
	if err != nil {
		return 0, fmt.Errorf("failed to sum spending for category %q: %w", categoryID, err)
	}
	return spent, nil
}

// periodRows loads the rows the aggregates are computed from.
func (r *TransactionRepository) periodRows(ctx context.Context, month, year int) (model.Period, []aggregate.Row, error) {
	if err := validateContext(ctx); err != nil {
		return model.Period{}, nil, err
	}
	p, err := validatePeriod(month, year)
	if err != nil {
		return model.Period{}, nil, err
	}

	rows, err := r.s.q.QueryContext(ctx, `
		SELECT t.type, t.category_id, COALESCE(c.name, ''), COALESCE(c.icon, ''), COALESCE(c.color, ''),
			t.date, t.amount
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.date BETWEEN ? AND ?`, p.Start(), p.End())
	if err != nil {
		return model.Period{}, nil, fmt.Errorf("failed to query transactions for %s: %w", p, err)
	}
	defer func() { _ = rows.Close() }()

	var result []aggregate.Row
	for rows.Next() {
		var (
			row  aggregate.Row
			kind string
		)
		if err := rows.Scan(&kind, &row.CategoryID, &row.CategoryName, &row.CategoryIcon, &row.CategoryColor, &row.Date, &row.Amount); err != nil {
			return model.Period{}, nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		row.Type = model.TransactionType(kind)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return model.Period{}, nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return p, result, nil
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...any) ([]model.TransactionWithCategory, error) {
	rows, err := r.s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.TransactionWithCategory
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("retrieved transactions", "count", len(txns))
	return txns, nil
}

func scanTransaction(row scanner) (model.TransactionWithCategory, error) {
	var (
		txn                  model.TransactionWithCategory
		kind                 string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&txn.ID, &kind, &txn.Amount, &txn.CategoryID, &txn.Date, &txn.Note, &txn.PaymentMethodID,
		&createdAt, &updatedAt,
		&txn.CategoryName, &txn.CategoryIcon, &txn.CategoryColor,
	)
	if err != nil {
		return model.TransactionWithCategory{}, fmt.Errorf("failed to scan transaction: %w", err)
	}
	txn.Type = model.TransactionType(kind)

	if err := parseTimestamps(&txn.CreatedAt, &txn.UpdatedAt, createdAt, updatedAt); err != nil {
		return model.TransactionWithCategory{}, fmt.Errorf("transaction %s: %w", txn.ID, err)
	}
	return txn, nil
}

func insertTransaction(ctx context.Context, q queryable, t *model.Transaction) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO transactions (
			id, type, amount, category_id, date, note, payment_method_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Type), t.Amount, t.CategoryID, t.Date, t.Note, t.PaymentMethodID,
		formatTimestamp(t.CreatedAt), formatTimestamp(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", classifyError(err))
	}
	return nil
}
