// Package aggregate derives read models from transaction and budget rows.
// Every function is pure: the caller supplies the rows and the period, and
// nothing is cached between calls.
package aggregate

import (
	"cmp"
	"slices"

	"github.com/Veraticus/sprout/internal/model"
)

// Row is the slice of a transaction the aggregates need, joined with the
// display fields of its category. The category fields are empty when the
// category has been deleted.
type Row struct {
	Type          model.TransactionType
	CategoryID    string
	CategoryName  string
	CategoryIcon  string
	CategoryColor string
	Date          string
	Amount        float64
}

// MonthSummary totals the rows that fall inside p. TransactionCount counts
// every row in the period regardless of type.
func MonthSummary(p model.Period, rows []Row) model.MonthSummary {
	var summary model.MonthSummary
	for _, row := range rows {
		if !p.Contains(row.Date) {
			continue
		}
		summary.TransactionCount++
		switch row.Type {
		case model.TransactionTypeIncome:
			summary.TotalIncome += row.Amount
		case model.TransactionTypeExpense:
			summary.TotalExpense += row.Amount
		}
	}
	summary.NetBalance = summary.TotalIncome - summary.TotalExpense
	return summary
}

// CategoryBreakdown groups the rows of type t inside p by category. The result
// is ordered by amount, largest first; equal amounts are ordered by category id.
func CategoryBreakdown(p model.Period, t model.TransactionType, rows []Row) []model.CategoryBreakdown {
	var (
		byCategory = make(map[string]int)
		breakdown  []model.CategoryBreakdown
		grandTotal float64
	)
	for _, row := range rows {
		if row.Type != t || !p.Contains(row.Date) {
			continue
		}
		i, ok := byCategory[row.CategoryID]
		if !ok {
			i = len(breakdown)
			byCategory[row.CategoryID] = i
			breakdown = append(breakdown, model.CategoryBreakdown{
				CategoryID:    row.CategoryID,
				CategoryName:  row.CategoryName,
				CategoryIcon:  row.CategoryIcon,
				CategoryColor: row.CategoryColor,
			})
		}
		breakdown[i].Amount += row.Amount
		breakdown[i].TransactionCount++
		grandTotal += row.Amount
	}

	for i := range breakdown {
		breakdown[i].Percentage = Percentage(breakdown[i].Amount, grandTotal)
	}

	slices.SortStableFunc(breakdown, func(a, b model.CategoryBreakdown) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.CategoryID, b.CategoryID)
	})
	return breakdown
}

// DailySpending sums the expense rows inside p per calendar date, in date order.
// Days without expenses are absent.
func DailySpending(p model.Period, rows []Row) []model.DailySpending {
	totals := make(map[string]float64)
	for _, row := range rows {
		if row.Type != model.TransactionTypeExpense || !p.Contains(row.Date) {
			continue
		}
		totals[row.Date] += row.Amount
	}

	days := make([]model.DailySpending, 0, len(totals))
	for date, amount := range totals {
		if amount == 0 {
			continue
		}
		days = append(days, model.DailySpending{Date: date, Amount: amount})
	}
	slices.SortFunc(days, func(a, b model.DailySpending) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return days
}

// Percentage returns part as a percentage of total, or 0 when total is 0.
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
