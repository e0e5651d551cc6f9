package aggregate

import (
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/sprout/internal/model"
)

const (
	// trendThreshold is the month-over-month change in spending, in percent,
	// that is worth pointing out.
	trendThreshold = 20
	// healthySavingsRate is the share of income, in percent, above which
	// savings are praised.
	healthySavingsRate    = 20
	busyMonthTransactions = 50
)

// ElapsedDays is the number of days of p that have passed at now: the whole
// month for a past period and none for a future one.
func ElapsedDays(p model.Period, now time.Time) int {
	current := model.PeriodOf(now)
	switch {
	case p == current:
		return now.Day()
	case p.Start() < current.Start():
		return p.DaysInMonth()
	default:
		return 0
	}
}

// Insights compares the rows of p with those of the month before it and with
// the budgets of p. rows may span both months; anything outside them is ignored.
// elapsed is the number of days of p the daily average is spread over.
func Insights(p model.Period, elapsed int, rows []Row, budgets []model.BudgetWithCategory, currency model.CurrencyCode) []model.Insight {
	current := MonthSummary(p, rows)
	previous := MonthSummary(p.Previous(), rows)

	var insights []model.Insight

	if previous.TotalExpense > 0 {
		change := Percentage(current.TotalExpense-previous.TotalExpense, previous.TotalExpense)
		switch {
		case change > trendThreshold:
			insights = append(insights, model.Insight{
				ID:      "trend-up",
				Kind:    model.InsightWarning,
				Title:   "Spending increased",
				Message: fmt.Sprintf("You spent %.0f%% more than last month", math.Abs(change)),
				Icon:    "📈",
			})
		case change < -trendThreshold:
			insights = append(insights, model.Insight{
				ID:      "trend-down",
				Kind:    model.InsightSuccess,
				Title:   "Great savings!",
				Message: fmt.Sprintf("You spent %.0f%% less than last month", math.Abs(change)),
				Icon:    "📉",
			})
		}
	}

	if elapsed > 0 {
		insights = append(insights, model.Insight{
			ID:      "avg-daily",
			Kind:    model.InsightInfo,
			Title:   "Daily average",
			Message: fmt.Sprintf("You're spending %s per day on average", currency.Format(current.TotalExpense/float64(elapsed))),
			Icon:    "📊",
		})
	}

	over := 0
	for _, b := range budgets {
		if b.Spent > b.LimitAmount {
			over++
		}
	}
	switch {
	case over == 1:
		insights = append(insights, budgetAlert("1 budget is over limit"))
	case over > 1:
		insights = append(insights, budgetAlert(fmt.Sprintf("%d budgets are over limit", over)))
	case len(budgets) > 0:
		insights = append(insights, model.Insight{
			ID:      "budget-success",
			Kind:    model.InsightSuccess,
			Title:   "On track!",
			Message: "All budgets are within limits",
			Icon:    "✅",
		})
	}

	if current.TotalIncome > 0 {
		rate := Percentage(current.NetBalance, current.TotalIncome)
		switch {
		case rate > healthySavingsRate:
			insights = append(insights, model.Insight{
				ID:      "savings-great",
				Kind:    model.InsightSuccess,
				Title:   "Excellent savings!",
				Message: fmt.Sprintf("You're saving %.0f%% of your income", rate),
				Icon:    "💰",
			})
		case rate < 0:
			insights = append(insights, model.Insight{
				ID:      "savings-negative",
				Kind:    model.InsightWarning,
				Title:   "Spending more than earning",
				Message: "Consider reducing expenses",
				Icon:    "💸",
			})
		}
	}

	expenses := CategoryBreakdown(p, model.TransactionTypeExpense, rows)
	if len(expenses) > 0 && current.TotalExpense > 0 {
		top := expenses[0]
		insights = append(insights, model.Insight{
			ID:      "top-category",
			Kind:    model.InsightInfo,
			Title:   "Top spending category",
			Message: fmt.Sprintf("%s accounts for %.0f%% of expenses", categoryName(top.CategoryName), top.Percentage),
			Icon:    "🎯",
		})
	}

	count := 0
	for _, b := range expenses {
		count += b.TransactionCount
	}
	if count > busyMonthTransactions {
		insights = append(insights, model.Insight{
			ID:      "high-frequency",
			Kind:    model.InsightInfo,
			Title:   "Frequent transactions",
			Message: fmt.Sprintf("You've made %d transactions this month", count),
			Icon:    "🔄",
		})
	}

	return insights
}

func budgetAlert(message string) model.Insight {
	return model.Insight{
		ID:      "budget-warning",
		Kind:    model.InsightWarning,
		Title:   "Budget alert",
		Message: message,
		Icon:    "⚠️",
	}
}

// ProjectMonthEnd extrapolates the expenses of p over the whole month from the
// first elapsed days. It is 0 before the month starts.
func ProjectMonthEnd(p model.Period, elapsed int, rows []Row) float64 {
	if elapsed <= 0 {
		return 0
	}
	spent := MonthSummary(p, rows).TotalExpense
	return spent / float64(elapsed) * float64(p.DaysInMonth())
}

// BudgetHealth scores budgets from 0 to 100 by how close each is to its limit.
// No budgets score 100.
func BudgetHealth(budgets []model.BudgetWithCategory) int {
	if len(budgets) == 0 {
		return 100
	}

	total := 0
	for _, b := range budgets {
		used := Percentage(b.Spent, b.LimitAmount)
		switch {
		case used <= 80:
			total += 100
		case used <= 100:
			total += 80
		case used <= 120:
			total += 50
		default:
			total += 20
		}
	}
	return int(math.Round(float64(total) / float64(len(budgets))))
}

func categoryName(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
