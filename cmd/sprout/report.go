package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sprout/internal/cli"
	"github.com/Veraticus/sprout/internal/model"
	"github.com/Veraticus/sprout/internal/storage"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report on a month with insights",
		Long: `Report on a month: totals and savings rate, the biggest expense and income
categories, observations compared with the month before, budget health and
a projection of the month's spending.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				currency, err := displayCurrency(ctx, store)
				if err != nil {
					return err
				}
				return writeReport(ctx, cmd.OutOrStdout(), store, period, currency)
			})
		},
	}

	periodFlags(cmd)

	return cmd
}

func writeReport(ctx context.Context, out io.Writer, store *storage.SQLiteStorage, period model.Period, currency model.CurrencyCode) error {
	report, err := store.Transactions().GetMonthlyReport(ctx, period.Month, period.Year)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	insights, err := store.GetInsights(ctx, period.Month, period.Year, currency)
	if err != nil {
		return fmt.Errorf("failed to compute insights: %w", err)
	}

	body := strings.Join([]string{
		"Income:       " + cli.IncomeStyle.Render(currency.Format(report.TotalIncome)),
		"Expenses:     " + cli.ExpenseStyle.Render(currency.Format(report.TotalExpense)),
		"Net balance:  " + currency.Format(report.NetBalance),
		fmt.Sprintf("Transactions: %d", report.TransactionCount),
		fmt.Sprintf("Savings rate: %.1f%%", report.SavingsRate),
	}, "\n")
	fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" Monthly report, "+period.String(), body))

	if len(report.TopExpenses) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.StyleTitle("Top expense categories"))
		fmt.Fprintln(out, renderReportCategories(report.TopExpenses, currency, true))
	}
	if len(report.TopIncome) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.StyleTitle("Income sources"))
		fmt.Fprintln(out, renderReportCategories(report.TopIncome, currency, false))
	}

	if len(insights.Insights) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.StyleTitle("Insights"))
		for _, i := range insights.Insights {
			fmt.Fprintf(out, "%s %s %s\n", i.Icon, styleInsight(i.Kind, i.Title), cli.SubtleStyle.Render(i.Message))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Budget health: %d/100\n", insights.BudgetHealth)
	if insights.ProjectedExpense > 0 {
		fmt.Fprintf(out, "Projected spending: %s\n", currency.Format(insights.ProjectedExpense))
	}
	return nil
}

func renderReportCategories(categories []model.ReportCategory, currency model.CurrencyCode, withShare bool) string {
	headers := []string{"Category", "Amount"}
	if withShare {
		headers = append(headers, "Share")
	}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		row := []string{c.Name, currency.Format(c.Amount)}
		if withShare {
			row = append(row, cli.RenderMeter(c.Percentage, 20))
		}
		rows = append(rows, row)
	}
	return cli.RenderTable(headers, rows)
}

func styleInsight(kind model.InsightKind, title string) string {
	switch kind {
	case model.InsightWarning:
		return cli.WarningStyle.Render(title)
	case model.InsightSuccess:
		return cli.StyleSuccess(title)
	default:
		return cli.InfoStyle.Render(title)
	}
}
