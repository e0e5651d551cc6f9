package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sprout/internal/model"
)

func TestMonthlyReport(t *testing.T) {
	period := model.Period{Month: 3, Year: 2024}
	rows := []Row{
		named(expense("a", "2024-03-01", 600), "Rent"),
		named(expense("b", "2024-03-02", 500), "Groceries"),
		named(expense("c", "2024-03-03", 400), "Travel"),
		named(expense("d", "2024-03-04", 300), "Shopping"),
		named(expense("e", "2024-03-05", 200), "Health"),
		named(expense("f", "2024-03-06", 100), "Gifts"),
		named(income("salary", "2024-03-01", 3000), "Salary"),
		named(income("freelance", "2024-03-10", 500), "Freelance"),
		named(income("investment", "2024-03-12", 300), "Investment"),
		named(income("gift", "2024-03-15", 200), "Gift"),
		named(expense("a", "2024-04-01", 600), "Rent"),
	}

	report := MonthlyReport(period, rows)

	assert.Equal(t, period, report.Period)
	assert.InDelta(t, 4000.0, report.TotalIncome, 1e-9)
	assert.InDelta(t, 2100.0, report.TotalExpense, 1e-9)
	assert.InDelta(t, 1900.0, report.NetBalance, 1e-9)
	assert.Equal(t, 10, report.TransactionCount)
	assert.InDelta(t, 47.5, report.SavingsRate, 1e-9)
	assert.Len(t, report.CategoryBreakdown, 6)

	require.Len(t, report.TopExpenses, 5)
	assert.Equal(t, "Rent", report.TopExpenses[0].Name)
	assert.InDelta(t, 600.0/2100*100, report.TopExpenses[0].Percentage, 1e-9)
	assert.Equal(t, "Health", report.TopExpenses[4].Name)

	require.Len(t, report.TopIncome, 3)
	assert.Equal(t, []model.ReportCategory{
		{Name: "Salary", Amount: 3000},
		{Name: "Freelance", Amount: 500},
		{Name: "Investment", Amount: 300},
	}, report.TopIncome)
}

func TestMonthlyReport_NoIncome(t *testing.T) {
	report := MonthlyReport(model.Period{Month: 3, Year: 2024}, []Row{expense("gone", "2024-03-04", 25)})

	assert.Zero(t, report.SavingsRate)
	assert.Empty(t, report.TopIncome)
	require.Len(t, report.TopExpenses, 1)
	assert.Equal(t, "Unknown", report.TopExpenses[0].Name)
	assert.InDelta(t, 100.0, report.TopExpenses[0].Percentage, 1e-9)
}

func TestRecommend(t *testing.T) {
	categories := []model.Category{
		{ID: "groceries", Name: "Groceries", Type: model.TransactionTypeExpense},
		{ID: "bills", Name: "Bills & Utilities", Type: model.TransactionTypeExpense},
		{ID: "food", Name: "Food & Dining", Type: model.TransactionTypeExpense},
		{ID: "shopping", Name: "Shopping", Type: model.TransactionTypeExpense},
		{ID: "fun", Name: "Entertainment", Type: model.TransactionTypeExpense},
		{ID: "health", Name: "Health", Type: model.TransactionTypeExpense},
		{ID: "rainy", Name: "Emergency Fund Savings", Type: model.TransactionTypeExpense},
		{ID: "salary", Name: "Salary Savings", Type: model.TransactionTypeIncome},
	}

	recs := Recommend(4000, categories)
	assert.Equal(t, []model.BudgetRecommendation{
		{CategoryID: "groceries", CategoryName: "Groceries", Group: model.SpendingNeeds, RecommendedAmount: 1000, Percentage: 25},
		{CategoryID: "bills", CategoryName: "Bills & Utilities", Group: model.SpendingNeeds, RecommendedAmount: 1000, Percentage: 25},
		{CategoryID: "food", CategoryName: "Food & Dining", Group: model.SpendingWants, RecommendedAmount: 400, Percentage: 10},
		{CategoryID: "shopping", CategoryName: "Shopping", Group: model.SpendingWants, RecommendedAmount: 400, Percentage: 10},
		{CategoryID: "fun", CategoryName: "Entertainment", Group: model.SpendingWants, RecommendedAmount: 400, Percentage: 10},
		{CategoryID: "rainy", CategoryName: "Emergency Fund Savings", Group: model.SpendingSavings, RecommendedAmount: 800, Percentage: 20},
	}, recs)

	t.Run("amounts are rounded to whole units", func(t *testing.T) {
		recs := Recommend(1001, categories[:2])
		require.Len(t, recs, 2)
		assert.Equal(t, 250.0, recs[0].RecommendedAmount)
	})

	t.Run("no income", func(t *testing.T) {
		assert.Nil(t, Recommend(0, categories))
		assert.Nil(t, Recommend(-10, categories))
	})
}

func TestAdjustRecommendations(t *testing.T) {
	recs := []model.BudgetRecommendation{
		{CategoryID: "food", RecommendedAmount: 400},
		{CategoryID: "shopping", RecommendedAmount: 400},
		{CategoryID: "fun", RecommendedAmount: 400},
	}

	adjusted := AdjustRecommendations(recs, map[string]float64{"food": 700, "shopping": 600})

	assert.Equal(t, 770.0, adjusted[0].RecommendedAmount)
	assert.Equal(t, 400.0, adjusted[1].RecommendedAmount, "exactly half again as much is not adjusted")
	assert.Equal(t, 400.0, adjusted[2].RecommendedAmount)
	assert.Equal(t, 400.0, recs[0].RecommendedAmount)
}
