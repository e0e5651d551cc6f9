package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/sprout/internal/cli"
	"github.com/Veraticus/sprout/internal/model"
	"github.com/Veraticus/sprout/internal/storage"
)

func summaryCmd() *cobra.Command {
	var breakdownType string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize a month of income and spending",
		Long: `Show totals for a month, where the money went by category, daily
spending, budgets and the most recent transactions.`,
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
				return writeSummary(ctx, cmd.OutOrStdout(), store, period, model.TransactionType(breakdownType), currency)
			})
		},
	}

	periodFlags(cmd)
	cmd.Flags().StringVar(&breakdownType, "type", string(model.TransactionTypeExpense), "breakdown by income or expense categories")

	return cmd
}

func writeSummary(ctx context.Context, out io.Writer, store *storage.SQLiteStorage, period model.Period, breakdownType model.TransactionType, currency model.CurrencyCode) error {
	txns := store.Transactions()

	summary, err := txns.GetMonthSummary(ctx, period.Month, period.Year)
	if err != nil {
		return fmt.Errorf("failed to summarize month: %w", err)
	}

	net := currency.Format(summary.NetBalance)
	if summary.NetBalance < 0 {
		net = cli.StyleError(net)
	} else {
		net = cli.StyleSuccess(net)
	}
	body := strings.Join([]string{
		"Income:       " + cli.IncomeStyle.Render(currency.Format(summary.TotalIncome)),
		"Expenses:     " + cli.ExpenseStyle.Render(currency.Format(summary.TotalExpense)),
		"Net balance:  " + net,
		fmt.Sprintf("Transactions: %d", summary.TransactionCount),
	}, "\n")
	fmt.Fprintln(out, cli.RenderBox(cli.SproutIcon+" "+period.String(), body))

	if summary.TransactionCount == 0 {
		fmt.Fprintln(out, cli.InfoStyle.Render("No transactions this month."))
		return nil
	}

	breakdown, err := txns.GetCategoryBreakdown(ctx, period.Month, period.Year, breakdownType)
	if err != nil {
		return fmt.Errorf("failed to break down categories: %w", err)
	}
	if len(breakdown) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.StyleTitle(cli.ChartIcon+" By category ("+string(breakdownType)+")"))
		fmt.Fprintln(out, renderBreakdown(breakdown, currency))
	}

	daily, err := txns.GetDailySpending(ctx, period.Month, period.Year)
	if err != nil {
		return fmt.Errorf("failed to load daily spending: %w", err)
	}
	if len(daily) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.StyleTitle("Daily spending"))
		fmt.Fprintln(out, renderDaily(daily, currency))
	}

	budgets, err := store.Budgets().GetByMonthYear(ctx, period.Month, period.Year)
	if err != nil {
		return fmt.Errorf("failed to load budgets: %w", err)
	}
	if len(budgets) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.StyleTitle(cli.WalletIcon+" Budgets"))
		fmt.Fprintln(out, renderBudgets(budgets, currency))
	}

	recent, err := txns.GetRecent(ctx, storage.DefaultRecentLimit)
	if err != nil {
		return fmt.Errorf("failed to load recent transactions: %w", err)
	}
	if len(recent) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.StyleTitle("Recent"))
		rows := make([][]string, 0, len(recent))
		for _, txn := range recent {
			rows = append(rows, []string{
				txn.Date,
				txn.CategoryIcon + " " + txn.CategoryName,
				cli.FormatFlow(txn.Type == model.TransactionTypeIncome, currency.Format(txn.Amount)),
				txn.Note,
			})
		}
		fmt.Fprintln(out, cli.RenderTable([]string{"Date", "Category", "Amount", "Note"}, rows))
	}

	return nil
}

func renderBreakdown(breakdown []model.CategoryBreakdown, currency model.CurrencyCode) string {
	rows := make([][]string, 0, len(breakdown))
	for _, b := range breakdown {
		name := b.CategoryName
		if name == "" {
			name = "Uncategorized"
		}
		if b.CategoryColor != "" {
			name = lipgloss.NewStyle().Foreground(lipgloss.Color(b.CategoryColor)).Render(name)
		}
		rows = append(rows, []string{
			b.CategoryIcon + " " + name,
			currency.Format(b.Amount),
			fmt.Sprintf("%.1f%%", b.Percentage),
			fmt.Sprintf("%d", b.TransactionCount),
		})
	}
	return cli.RenderTable([]string{"Category", "Amount", "Share", "Count"}, rows)
}

// renderDaily draws one bar per day, scaled to the biggest day.
func renderDaily(daily []model.DailySpending, currency model.CurrencyCode) string {
	peak := 0.0
	for _, d := range daily {
		peak = max(peak, d.Amount)
	}

	const width = 30
	lines := make([]string, 0, len(daily))
	for _, d := range daily {
		n := 1
		if peak > 0 {
			n = max(1, int(d.Amount/peak*width))
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			d.Date[len(d.Date)-2:],
			cli.ExpenseStyle.Render(strings.Repeat("▇", n)),
			currency.Format(d.Amount),
		))
	}
	return strings.Join(lines, "\n")
}
