package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/sprout/internal/model"
)

const budgetColumns = `id, month, year, category_id, limit_amount, created_at, updated_at`

// BudgetRepository persists budgets. A category has at most one budget per month;
// a second one fails with common.ErrDuplicateEntry.
type BudgetRepository struct {
	s *SQLiteStorage
}

// Create stores a new budget and returns it.
func (r *BudgetRepository) Create(ctx context.Context, input model.BudgetInput) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateAmount(input.LimitAmount); err != nil {
		return nil, err
	}

	now := r.s.timestamp()
	budget := &model.Budget{
		ID:          r.s.newID(),
		Month:       input.Month,
		Year:        input.Year,
		CategoryID:  input.CategoryID,
		LimitAmount: input.LimitAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := insertBudget(ctx, r.s.q, budget); err != nil {
		return nil, err
	}

	slog.Debug("created budget", "id", budget.ID, "category_id", budget.CategoryID, "period", budget.Period())
	return budget, nil
}

// Update changes the fields present in patch and refreshes updated_at.
func (r *BudgetRepository) Update(ctx context.Context, id string, patch model.BudgetPatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var set columnSet
	setIfPresent(&set, "month", patch.Month)
	setIfPresent(&set, "year", patch.Year)
	setIfPresent(&set, "category_id", patch.CategoryID)
	if patch.LimitAmount != nil {
		if err := validateAmount(*patch.LimitAmount); err != nil {
			return err
		}
		set.add("limit_amount", *patch.LimitAmount)
	}
	set.add("updated_at", formatTimestamp(r.s.timestamp()))

	if err := updateRow(ctx, r.s.q, "budgets", id, set); err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return nil
}

// Delete removes a budget.
func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if err := deleteRow(ctx, r.s.q, "budgets", id); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

// GetByID returns the budget with the given id, or nil if there is none.
func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	budget, err := scanBudget(r.s.q.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// GetAll returns every budget, most recent period first.
func (r *BudgetRepository) GetAll(ctx context.Context) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := r.s.q.QueryContext(ctx, `SELECT `+budgetColumns+` FROM budgets ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	slog.Debug("retrieved budgets", "count", len(budgets))
	return budgets, nil
}

// GetByMonthYear returns the budgets of one month joined with their category and
// the amount spent against them, largest limit first. Spending is summed per budget.
func (r *BudgetRepository) GetByMonthYear(ctx context.Context, month, year int) ([]model.BudgetWithCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	p, err := validatePeriod(month, year)
	if err != nil {
		return nil, err
	}

	budgets, err := r.queryWithCategory(ctx, p)
	if err != nil {
		return nil, err
	}

	// The rows are closed by now; the store has a single connection.
	for i := range budgets {
		spent, err := r.s.transactions.GetSpentByCategory(ctx, budgets[i].CategoryID, p.Month, p.Year)
		if err != nil {
			return nil, err
		}
		budgets[i].Spent = spent
	}
	return budgets, nil
}

// GetTotalBudget sums the limits of one month's budgets, 0 when there are none.
func (r *BudgetRepository) GetTotalBudget(ctx context.Context, month, year int) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	p, err := validatePeriod(month, year)
	if err != nil {
		return 0, err
	}

	var total float64
	err = r.s.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(limit_amount), 0) FROM budgets WHERE month = ? AND year = ?`,
		p.Month, p.Year).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum budgets for %s: %w", p, err)
	}
	return total, nil
}

func (r *BudgetRepository) queryWithCategory(ctx context.Context, p model.Period) ([]model.BudgetWithCategory, error) {
	rows, err := r.s.q.QueryContext(ctx, `
		SELECT b.id, b.month, b.year, b.category_id, b.limit_amount, b.created_at, b.updated_at,
			COALESCE(c.name, ''), COALESCE(c.icon, ''), COALESCE(c.color, '')
		FROM budgets b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.month = ? AND b.year = ?
		ORDER BY b.limit_amount DESC`, p.Month, p.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets for %s: %w", p, err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.BudgetWithCategory
	for rows.Next() {
		var (
			b                    model.BudgetWithCategory
			createdAt, updatedAt string
		)
		if err := rows.Scan(&b.ID, &b.Month, &b.Year, &b.CategoryID, &b.LimitAmount, &createdAt, &updatedAt,
			&b.CategoryName, &b.CategoryIcon, &b.CategoryColor); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if err := parseTimestamps(&b.CreatedAt, &b.UpdatedAt, createdAt, updatedAt); err != nil {
			return nil, fmt.Errorf("budget %s: %w", b.ID, err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}

func scanBudget(row scanner) (model.Budget, error) {
	var (
		b                    model.Budget
		createdAt, updatedAt string
	)
	if err := row.Scan(&b.ID, &b.Month, &b.Year, &b.CategoryID, &b.LimitAmount, &createdAt, &updatedAt); err != nil {
		return model.Budget{}, fmt.Errorf("failed to scan budget: %w", err)
	}
	if err := parseTimestamps(&b.CreatedAt, &b.UpdatedAt, createdAt, updatedAt); err != nil {
		return model.Budget{}, fmt.Errorf("budget %s: %w", b.ID, err)
	}
	return b, nil
}

func insertBudget(ctx context.Context, q queryable, b *model.Budget) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO budgets (`+budgetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Month, b.Year, b.CategoryID, b.LimitAmount,
		formatTimestamp(b.CreatedAt), formatTimestamp(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create budget for %s: %w", b.Period(), classifyError(err))
	}
	return nil
}
