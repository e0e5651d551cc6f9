// Package service defines the contracts the ledger's callers depend on.
package service

import (
	"context"

	"github.com/Veraticus/sprout/internal/model"
)

// Lifecycle prepares a store for use. Callers run the steps once at start, in order:
// Migrate, SeedDefaults, then SeedDemoData when demo data is wanted.
type Lifecycle interface {
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	SeedDefaults(ctx context.Context) error
	SeedDemoData(ctx context.Context) error
}

// CategoryRepository manages categories.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]model.Category, error)
	GetByType(ctx context.Context, t model.TransactionType) ([]model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	Create(ctx context.Context, input model.CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id string, patch model.CategoryPatch) error
	Delete(ctx context.Context, id string) error
}

// PaymentMethodRepository manages payment methods.
type PaymentMethodRepository interface {
	GetAll(ctx context.Context) ([]model.PaymentMethod, error)
	GetByID(ctx context.Context, id string) (*model.PaymentMethod, error)
	GetByName(ctx context.Context, name string) (*model.PaymentMethod, error)
	GetDefault(ctx context.Context) (*model.PaymentMethod, error)
	Create(ctx context.Context, input model.PaymentMethodInput) (*model.PaymentMethod, error)
	Update(ctx context.Context, id string, patch model.PaymentMethodPatch) error
	Delete(ctx context.Context, id string) error
}

// UserProfileRepository manages the single user profile.
type UserProfileRepository interface {
	Get(ctx context.Context) (*model.UserProfile, error)
	Create(ctx context.Context, input model.UserProfileInput) (*model.UserProfile, error)
	Update(ctx context.Context, patch model.UserProfilePatch) error
	Exists(ctx context.Context) (bool, error)
}

// TransactionReader lists stored transactions.
type TransactionReader interface {
	GetByID(ctx context.Context, id string) (*model.TransactionWithCategory, error)
	GetAll(ctx context.Context, limit, offset int) ([]model.TransactionWithCategory, error)
	List(ctx context.Context) ([]model.TransactionWithCategory, error)
	GetByDateRange(ctx context.Context, start, end string) ([]model.TransactionWithCategory, error)
	GetByMonth(ctx context.Context, month, year int) ([]model.TransactionWithCategory, error)
	GetRecent(ctx context.Context, limit int) ([]model.TransactionWithCategory, error)
	GetCount(ctx context.Context) (int, error)
}

// Aggregator computes read models over a calendar month of transactions.
type Aggregator interface {
	GetMonthSummary(ctx context.Context, month, year int) (model.MonthSummary, error)
	GetCategoryBreakdown(ctx context.Context, month, year int, t model.TransactionType) ([]model.CategoryBreakdown, error)
	GetDailySpending(ctx context.Context, month, year int) ([]model.DailySpending, error)
	GetSpentByCategory(ctx context.Context, categoryID string, month, year int) (float64, error)
	GetMonthlyReport(ctx context.Context, month, year int) (model.MonthlyReport, error)
}

// Advisor reads across transactions, budgets and categories to comment on a month.
type Advisor interface {
	GetInsights(ctx context.Context, month, year int, currency model.CurrencyCode) (*model.MonthInsights, error)
	RecommendBudgets(ctx context.Context, month, year int) ([]model.BudgetRecommendation, error)
}

// TransactionRepository manages transactions and serves their aggregates.
type TransactionRepository interface {
	TransactionReader
	Aggregator
	Create(ctx context.Context, input model.TransactionInput) (*model.Transaction, error)
	Update(ctx context.Context, id string, patch model.TransactionPatch) error
	Delete(ctx context.Context, id string) error
}

// BudgetRepository manages monthly category budgets.
type BudgetRepository interface {
	Create(ctx context.Context, input model.BudgetInput) (*model.Budget, error)
	Update(ctx context.Context, id string, patch model.BudgetPatch) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Budget, error)
	GetByMonthYear(ctx context.Context, month, year int) ([]model.BudgetWithCategory, error)
	GetAll(ctx context.Context) ([]model.Budget, error)
	GetTotalBudget(ctx context.Context, month, year int) (float64, error)
}

// GoalRepository manages savings goals.
type GoalRepository interface {
	Create(ctx context.Context, input model.GoalInput) (*model.Goal, error)
	Update(ctx context.Context, id string, patch model.GoalPatch) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Goal, error)
	GetAll(ctx context.Context) ([]model.Goal, error)
	AddFunds(ctx context.Context, id string, amount float64) error
}
