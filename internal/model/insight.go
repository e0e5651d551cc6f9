package model

// InsightKind grades an insight for display.
type InsightKind string

const (
	InsightWarning InsightKind = "warning"
	InsightSuccess InsightKind = "success"
	InsightInfo    InsightKind = "info"
)

// Insight is one observation about a month of spending.
type Insight struct {
	ID      string      `json:"id"`
	Kind    InsightKind `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Icon    string      `json:"icon"`
}

// ReportCategory is a category line of a monthly report.
type ReportCategory struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage,omitempty"`
}

// MonthlyReport condenses a month into totals, a savings rate and the
// categories that moved the most money.
type MonthlyReport struct {
	Period            Period              `json:"period"`
	CategoryBreakdown []CategoryBreakdown `json:"categoryBreakdown"`
	TopExpenses       []ReportCategory    `json:"topExpenseCategories"`
	TopIncome         []ReportCategory    `json:"topIncomeCategories"`
	MonthSummary
	SavingsRate float64 `json:"savingsRate"`
}

// SpendingGroup is a bucket of the 50/30/20 budgeting rule.
type SpendingGroup string

const (
	SpendingNeeds   SpendingGroup = "needs"
	SpendingWants   SpendingGroup = "wants"
	SpendingSavings SpendingGroup = "savings"
)

// BudgetRecommendation is a suggested monthly limit for one category.
type BudgetRecommendation struct {
	CategoryID        string        `json:"categoryId"`
	CategoryName      string        `json:"categoryName"`
	Group             SpendingGroup `json:"type"`
	RecommendedAmount float64       `json:"recommendedAmount"`
	Percentage        float64       `json:"percentage"`
}

// MonthInsights bundles the insights of a month with the figures behind them.
type MonthInsights struct {
	Insights         []Insight `json:"insights"`
	BudgetHealth     int       `json:"budgetHealth"`
	ProjectedExpense float64   `json:"projectedExpense"`
}
