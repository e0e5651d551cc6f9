package model

// MonthSummary totals a period's transactions by type.
type MonthSummary struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpense     float64 `json:"totalExpense"`
	NetBalance       float64 `json:"netBalance"`
	TransactionCount int     `json:"transactionCount"`
}

// CategoryBreakdown is one category's share of a period's income or expense.
type CategoryBreakdown struct {
	CategoryID       string  `json:"categoryId"`
	CategoryName     string  `json:"categoryName"`
	CategoryIcon     string  `json:"categoryIcon"`
	CategoryColor    string  `json:"categoryColor"`
	Amount           float64 `json:"amount"`
	Percentage       float64 `json:"percentage"`
	TransactionCount int     `json:"transactionCount"`
}

// DailySpending is the expense total of a single day.
type DailySpending struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}
