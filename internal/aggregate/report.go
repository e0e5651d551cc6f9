package aggregate

import (
	"math"
	"strings"

	"github.com/Veraticus/sprout/internal/model"
)

const (
	reportTopExpenses = 5
	reportTopIncome   = 3
)

// MonthlyReport condenses the rows of p into totals, the savings rate and the
// biggest expense and income categories.
func MonthlyReport(p model.Period, rows []Row) model.MonthlyReport {
	summary := MonthSummary(p, rows)
	expenses := CategoryBreakdown(p, model.TransactionTypeExpense, rows)
	income := CategoryBreakdown(p, model.TransactionTypeIncome, rows)

	report := model.MonthlyReport{
		Period:            p,
		MonthSummary:      summary,
		SavingsRate:       Percentage(summary.NetBalance, summary.TotalIncome),
		CategoryBreakdown: expenses,
		TopExpenses:       make([]model.ReportCategory, 0, min(len(expenses), reportTopExpenses)),
		TopIncome:         make([]model.ReportCategory, 0, min(len(income), reportTopIncome)),
	}
	for _, b := range expenses[:min(len(expenses), reportTopExpenses)] {
		report.TopExpenses = append(report.TopExpenses, model.ReportCategory{
			Name:       categoryName(b.CategoryName),
			Amount:     b.Amount,
			Percentage: b.Percentage,
		})
	}
	for _, b := range income[:min(len(income), reportTopIncome)] {
		report.TopIncome = append(report.TopIncome, model.ReportCategory{
			Name:   categoryName(b.CategoryName),
			Amount: b.Amount,
		})
	}
	return report
}

// spendingRule splits income 50/30/20 between needs, wants and savings. A
// category joins a group when its name contains one of the group's keywords.
var spendingRule = []struct {
	group    model.SpendingGroup
	share    float64
	keywords []string
}{
	{model.SpendingNeeds, 50, []string{"groceries", "housing", "utilities", "transportation", "healthcare"}},
	{model.SpendingWants, 30, []string{"dining", "entertainment", "shopping", "hobbies", "subscriptions"}},
	{model.SpendingSavings, 20, []string{"savings", "investments", "emergency fund"}},
}

// Recommend spreads a monthly income over the expense categories with the
// 50/30/20 rule. Each group's share is split evenly between its categories;
// categories no group claims get nothing. A category can match more than one group.
func Recommend(income float64, categories []model.Category) []model.BudgetRecommendation {
	if income <= 0 {
		return nil
	}

	var recommendations []model.BudgetRecommendation
	for _, rule := range spendingRule {
		var members []model.Category
		for _, c := range categories {
			if c.Type == model.TransactionTypeExpense && matchesAny(c.Name, rule.keywords) {
				members = append(members, c)
			}
		}
		if len(members) == 0 {
			continue
		}

		n := float64(len(members))
		for _, c := range members {
			recommendations = append(recommendations, model.BudgetRecommendation{
				CategoryID:        c.ID,
				CategoryName:      c.Name,
				Group:             rule.group,
				RecommendedAmount: math.Round(income * rule.share / 100 / n),
				Percentage:        rule.share / n,
			})
		}
	}
	return recommendations
}

// AdjustRecommendations raises a recommendation to the actual spending plus a
// 10% margin when the category already spends more than half again as much.
// spent is keyed by category id.
func AdjustRecommendations(recommendations []model.BudgetRecommendation, spent map[string]float64) []model.BudgetRecommendation {
	adjusted := make([]model.BudgetRecommendation, len(recommendations))
	for i, rec := range recommendations {
		if actual := spent[rec.CategoryID]; actual > rec.RecommendedAmount*1.5 {
			rec.RecommendedAmount = math.Round(actual * 1.1)
		}
		adjusted[i] = rec
	}
	return adjusted
}

func matchesAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
