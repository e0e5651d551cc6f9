package model

import "time"

// Budget caps spending in one category for one calendar month.
type Budget struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ID          string    `json:"id"`
	CategoryID  string    `json:"categoryId"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	LimitAmount float64   `json:"limitAmount"`
}

// Period returns the month the budget applies to.
func (b Budget) Period() Period {
	return Period{Month: b.Month, Year: b.Year}
}

// BudgetWithCategory is a budget joined with its category and the amount spent so far.
type BudgetWithCategory struct {
	CategoryName  string `json:"categoryName"`
	CategoryIcon  string `json:"categoryIcon"`
	CategoryColor string `json:"categoryColor"`
	Budget
	Spent float64 `json:"spent"`
}

// Remaining is the amount left before the limit is reached. It is negative when overspent.
func (b BudgetWithCategory) Remaining() float64 {
	return b.LimitAmount - b.Spent
}

// UsedPercent is the share of the limit already spent.
func (b BudgetWithCategory) UsedPercent() float64 {
	if b.LimitAmount <= 0 {
		return 0
	}
	return b.Spent / b.LimitAmount * 100
}

// BudgetInput holds the fields required to create a budget.
type BudgetInput struct {
	CategoryID  string  `json:"categoryId" validate:"required"`
	Month       int     `json:"month" validate:"min=1,max=12"`
	Year        int     `json:"year" validate:"min=2020,max=2100"`
	LimitAmount float64 `json:"limitAmount" validate:"gt=0"`
}

// BudgetPatch lists the budget fields to change.
type BudgetPatch struct {
	Month       *int
	Year        *int
	CategoryID  *string
	LimitAmount *float64
}
