package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
)

type demoTransaction struct {
	kind     model.TransactionType
	category string
	method   string
	note     string
	amount   float64
	day      int
	previous bool
}

var demoTransactions = []demoTransaction{
	{kind: model.TransactionTypeIncome, amount: 5200, category: "Salary", day: 1, note: "Monthly salary", method: "Debit Card"},
	{kind: model.TransactionTypeIncome, amount: 800, category: "Freelance", day: 5, note: "Website project", method: "Debit Card"},
	{kind: model.TransactionTypeIncome, amount: 150, category: "Investment", day: 3, note: "Dividend payout", method: "Debit Card"},
	{kind: model.TransactionTypeExpense, amount: 42.50, category: "Food & Dining", day: 2, note: "Dinner at Olive Garden", method: "Credit Card"},
	{kind: model.TransactionTypeExpense, amount: 15.00, category: "Transportation", day: 2, note: "Uber ride", method: "UPI"},
	{kind: model.TransactionTypeExpense, amount: 89.99, category: "Shopping", day: 3, note: "New headphones", method: "Credit Card"},
	{kind: model.TransactionTypeExpense, amount: 12.99, category: "Entertainment", day: 4, note: "Netflix subscription", method: "Debit Card"},
	{kind: model.TransactionTypeExpense, amount: 120.00, category: "Bills & Utilities", day: 5, note: "Electricity bill", method: "Debit Card"},
	{kind: model.TransactionTypeExpense, amount: 65.30, category: "Groceries", day: 6, note: "Weekly groceries", method: "Cash"},
	{kind: model.TransactionTypeExpense, amount: 28.00, category: "Food & Dining", day: 7, note: "Lunch with team", method: "UPI"},
	{kind: model.TransactionTypeExpense, amount: 45.00, category: "Health", day: 8, note: "Gym membership", method: "Debit Card"},
	{kind: model.TransactionTypeExpense, amount: 35.00, category: "Transportation", day: 9, note: "Gas refill", method: "Credit Card"},
	{kind: model.TransactionTypeExpense, amount: 22.50, category: "Food & Dining", day: 10, note: "Coffee & snacks", method: "Cash"},
	{kind: model.TransactionTypeExpense, amount: 199.99, category: "Shopping", day: 10, note: "Winter jacket", method: "Credit Card"},
	{kind: model.TransactionTypeExpense, amount: 8.99, category: "Entertainment", day: 11, note: "Spotify", method: "Debit Card"},

	{kind: model.TransactionTypeIncome, amount: 5200, category: "Salary", day: 1, note: "Monthly salary", method: "Debit Card", previous: true},
	{kind: model.TransactionTypeExpense, amount: 55.00, category: "Food & Dining", day: 3, note: "Restaurant", method: "Credit Card", previous: true},
	{kind: model.TransactionTypeExpense, amount: 80.00, category: "Groceries", day: 5, note: "Costco run", method: "Debit Card", previous: true},
	{kind: model.TransactionTypeExpense, amount: 45.00, category: "Transportation", day: 7, note: "Gas", method: "Cash", previous: true},
	{kind: model.TransactionTypeExpense, amount: 150.00, category: "Bills & Utilities", day: 10, note: "Internet + Phone", method: "Debit Card", previous: true},
	{kind: model.TransactionTypeExpense, amount: 250.00, category: "Shopping", day: 12, note: "Electronics", method: "Credit Card", previous: true},
	{kind: model.TransactionTypeExpense, amount: 35.00, category: "Health", day: 15, note: "Pharmacy", method: "Cash", previous: true},
	{kind: model.TransactionTypeExpense, amount: 18.00, category: "Food & Dining", day: 18, note: "Pizza night", method: "UPI", previous: true},
	{kind: model.TransactionTypeExpense, amount: 12.99, category: "Entertainment", day: 20, note: "Netflix", method: "Debit Card", previous: true},
	{kind: model.TransactionTypeExpense, amount: 72.50, category: "Groceries", day: 22, note: "Groceries", method: "Cash", previous: true},
}

var demoBudgets = []struct {
	category string
	limit    float64
}{
	{"Food & Dining", 300},
	{"Transportation", 200},
	{"Shopping", 400},
	{"Groceries", 350},
	{"Entertainment", 100},
	{"Bills & Utilities", 250},
}

func demoGoals(year int) []model.GoalInput {
	return []model.GoalInput{
		{Title: "Emergency Fund", TargetAmount: 10000, CurrentAmount: 3500, Deadline: fmt.Sprintf("%04d-06-30", year+1)},
		{Title: "New Laptop", TargetAmount: 2000, CurrentAmount: 850, Deadline: fmt.Sprintf("%04d-12-31", year)},
		{Title: "Vacation Trip", TargetAmount: 5000, CurrentAmount: 1200, Deadline: fmt.Sprintf("%04d-03-15", year+1)},
	}
}

// SeedDemoData fills an empty ledger with a sample profile, transactions for the
// current and previous month, budgets for the current month and three goals.
// It does nothing once a profile exists and requires the default catalog.
// Everything is written in one transaction.
func (s *SQLiteStorage) SeedDemoData(ctx context.Context) error {
	exists, err := s.profile.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		slog.Debug("profile present, skipping demo seed")
		return nil
	}

	categoryIDs, methodIDs, err := s.demoReferences(ctx)
	if err != nil {
		return err
	}

	current := model.PeriodOf(s.now())
	err = s.withTx(ctx, func(q queryable) error {
		profile := &model.UserProfile{
			ID:        model.UserProfileID,
			Name:      "Alex Johnson",
			Email:     "alex@example.com",
			Currency:  model.CurrencyUSD,
			CreatedAt: s.timestamp(),
		}
		if err := insertProfile(ctx, q, profile); err != nil {
			return err
		}

		for _, d := range demoTransactions {
			p := current
			if d.previous {
				p = current.Previous()
			}
			now := s.timestamp()
			txn := &model.Transaction{
				ID:              s.newID(),
				Type:            d.kind,
				Amount:          d.amount,
				CategoryID:      categoryIDs[d.category],
				Date:            p.Day(d.day),
				Note:            d.note,
				PaymentMethodID: methodIDs[d.method],
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := insertTransaction(ctx, q, txn); err != nil {
				return err
			}
		}

		for _, b := range demoBudgets {
			now := s.timestamp()
			budget := &model.Budget{
				ID:          s.newID(),
				Month:       current.Month,
				Year:        current.Year,
				CategoryID:  categoryIDs[b.category],
				LimitAmount: b.limit,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := insertBudget(ctx, q, budget); err != nil {
				return err
			}
		}

		for _, g := range demoGoals(current.Year) {
			now := s.timestamp()
			goal := &model.Goal{
				ID:            s.newID(),
				Title:         g.Title,
				TargetAmount:  g.TargetAmount,
				CurrentAmount: g.CurrentAmount,
				Deadline:      g.Deadline,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := insertGoal(ctx, q, goal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}

	slog.Info("Seeded demo data",
		"transactions", len(demoTransactions),
		"budgets", len(demoBudgets),
		"period", current)
	return nil
}

// demoReferences resolves the category and payment method names the demo rows use.
func (s *SQLiteStorage) demoReferences(ctx context.Context) (map[string]string, map[string]string, error) {
	categoryIDs := make(map[string]string)
	methodIDs := make(map[string]string)

	for _, d := range demoTransactions {
		if _, ok := categoryIDs[d.category]; !ok {
			category, err := s.categories.GetByName(ctx, d.category)
			if err != nil {
				return nil, nil, err
			}
			if category == nil {
				return nil, nil, fmt.Errorf("demo category %q: %w", d.category, common.ErrNotFound)
			}
			categoryIDs[d.category] = category.ID
		}
		if _, ok := methodIDs[d.method]; !ok {
			method, err := s.paymentMethods.GetByName(ctx, d.method)
			if err != nil {
				return nil, nil, err
			}
			if method == nil {
				return nil, nil, fmt.Errorf("demo payment method %q: %w", d.method, common.ErrNotFound)
			}
			methodIDs[d.method] = method.ID
		}
	}
	return categoryIDs, methodIDs, nil
}
