package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/sprout/internal/aggregate"
	"github.com/Veraticus/sprout/internal/model"
)

// GetInsights compares a month with the one before it and with its budgets.
// Amounts in messages are formatted in currency.
func (s *SQLiteStorage) GetInsights(ctx context.Context, month, year int, currency model.CurrencyCode) (*model.MonthInsights, error) {
	p, rows, err := s.transactions.periodRows(ctx, month, year)
	if err != nil {
		return nil, err
	}
	previous := p.Previous()
	_, earlier, err := s.transactions.periodRows(ctx, previous.Month, previous.Year)
	if err != nil {
		return nil, err
	}
	rows = append(rows, earlier...)

	budgets, err := s.budgets.GetByMonthYear(ctx, p.Month, p.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets for %s: %w", p, err)
	}

	elapsed := aggregate.ElapsedDays(p, s.now())
	insights := &model.MonthInsights{
		Insights:         aggregate.Insights(p, elapsed, rows, budgets, currency),
		BudgetHealth:     aggregate.BudgetHealth(budgets),
		ProjectedExpense: aggregate.ProjectMonthEnd(p, elapsed, rows),
	}

	slog.Debug("computed insights", "period", p, "count", len(insights.Insights), "budget_health", insights.BudgetHealth)
	return insights, nil
}

// RecommendBudgets suggests a limit for each expense category from the
// month's income, raised where the category already spends well above it.
// A month without income gets no recommendations.
func (s *SQLiteStorage) RecommendBudgets(ctx context.Context, month, year int) ([]model.BudgetRecommendation, error) {
	p, rows, err := s.transactions.periodRows(ctx, month, year)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.GetByType(ctx, model.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	spent := make(map[string]float64)
	for _, b := range aggregate.CategoryBreakdown(p, model.TransactionTypeExpense, rows) {
		spent[b.CategoryID] = b.Amount
	}

	income := aggregate.MonthSummary(p, rows).TotalIncome
	return aggregate.AdjustRecommendations(aggregate.Recommend(income, categories), spent), nil
}
