package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/sprout/internal/model"
)

// DefaultExpenseCategories are inserted on first start.
var DefaultExpenseCategories = []model.CategoryInput{
	{Name: "Food & Dining", Icon: "🍕", Color: "#FF7043"},
	{Name: "Transportation", Icon: "🚗", Color: "#42A5F5"},
	{Name: "Shopping", Icon: "🛍️", Color: "#AB47BC"},
	{Name: "Entertainment", Icon: "🎬", Color: "#EC407A"},
	{Name: "Bills & Utilities", Icon: "💡", Color: "#FFA726"},
	{Name: "Health", Icon: "🏥", Color: "#EF5350"},
	{Name: "Education", Icon: "📚", Color: "#5C6BC0"},
	{Name: "Travel", Icon: "✈️", Color: "#26A69A"},
	{Name: "Groceries", Icon: "🛒", Color: "#66BB6A"},
	{Name: "Personal Care", Icon: "💇", Color: "#F48FB1"},
	{Name: "Gifts", Icon: "🎁", Color: "#CE93D8"},
	{Name: "Other", Icon: "📦", Color: "#90A4AE"},
}

// DefaultIncomeCategories are inserted on first start.
var DefaultIncomeCategories = []model.CategoryInput{
	{Name: "Salary", Icon: "💰", Color: "#66BB6A"},
	{Name: "Freelance", Icon: "💻", Color: "#42A5F5"},
	{Name: "Investment", Icon: "📈", Color: "#26A69A"},
	{Name: "Gift", Icon: "🎁", Color: "#CE93D8"},
	{Name: "Refund", Icon: "🔄", Color: "#FFA726"},
	{Name: "Other Income", Icon: "💵", Color: "#90A4AE"},
}

// DefaultPaymentMethods are inserted on first start. Cash is the default.
var DefaultPaymentMethods = []model.PaymentMethodInput{
	{Name: "Cash", Icon: "💵", IsDefault: true},
	{Name: "Credit Card", Icon: "💳"},
	{Name: "Debit Card", Icon: "🏧"},
	{Name: "UPI", Icon: "📱"},
	{Name: "Bank Transfer", Icon: "🏦"},
	{Name: "Wallet", Icon: "👛"},
}

// SeedDefaults inserts the default categories and payment methods unless any
// category already exists. The catalog is written in one transaction.
func (s *SQLiteStorage) SeedDefaults(ctx context.Context) error {
	count, err := s.categories.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Debug("categories present, skipping default seed", "count", count)
		return nil
	}

	err = s.withTx(ctx, func(q queryable) error {
		for _, group := range []struct {
			kind   model.TransactionType
			inputs []model.CategoryInput
		}{
			{model.TransactionTypeExpense, DefaultExpenseCategories},
			{model.TransactionTypeIncome, DefaultIncomeCategories},
		} {
			for _, input := range group.inputs {
				category := &model.Category{
					ID:        s.newID(),
					Name:      input.Name,
					Icon:      input.Icon,
					Color:     input.Color,
					Type:      group.kind,
					IsDefault: true,
				}
				if err := insertCategory(ctx, q, category); err != nil {
					return err
				}
			}
		}

		for _, input := range DefaultPaymentMethods {
			method := &model.PaymentMethod{
				ID:        s.newID(),
				Name:      input.Name,
				Icon:      input.Icon,
				IsDefault: input.IsDefault,
			}
			if err := insertPaymentMethod(ctx, q, method); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed defaults: %w", err)
	}

	slog.Info("Seeded default data",
		"categories", len(DefaultExpenseCategories)+len(DefaultIncomeCategories),
		"payment_methods", len(DefaultPaymentMethods))
	return nil
}
