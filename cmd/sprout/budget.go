package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sprout/internal/cli"
	"github.com/Veraticus/sprout/internal/model"
	"github.com/Veraticus/sprout/internal/storage"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budget",
		Aliases: []string{"budgets"},
		Short:   "Plan monthly spending per category",
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(listBudgetCmd())
	cmd.AddCommand(deleteBudgetCmd())
	cmd.AddCommand(recommendBudgetCmd())

	return cmd
}

func setBudgetCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "set <limit>",
		Short: "Set the spending limit for a category in a month",
		Long: `Set the spending limit for a category in a month. A category has at most
one budget per month, so setting it again replaces the limit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			period, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				cat, err := resolveCategory(ctx, store, category)
				if err != nil {
					return err
				}

				input := model.BudgetInput{
					CategoryID:  cat.ID,
					Month:       period.Month,
					Year:        period.Year,
					LimitAmount: limit,
				}
				if err := validateInput(input); err != nil {
					return err
				}

				existing, err := store.Budgets().GetByMonthYear(ctx, period.Month, period.Year)
				if err != nil {
					return fmt.Errorf("failed to load budgets: %w", err)
				}

				currency, err := displayCurrency(ctx, store)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, b := range existing {
					if b.CategoryID != cat.ID {
						continue
					}
					if err := store.Budgets().Update(ctx, b.ID, model.BudgetPatch{LimitAmount: &limit}); err != nil {
						return fmt.Errorf("failed to update budget: %w", err)
					}
					fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Updated %s budget for %s to %s", cat.Name, period, currency.Format(limit))))
					return nil
				}

				if _, err := store.Budgets().Create(ctx, input); err != nil {
					return fmt.Errorf("failed to create budget: %w", err)
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Set %s budget for %s to %s", cat.Name, period, currency.Format(limit))))
				return nil
			})
		},
	}

	periodFlags(cmd)
	cmd.Flags().StringVar(&category, "category", "", "category name or id")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func listBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show budgets and spending for a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				budgets, err := store.Budgets().GetByMonthYear(ctx, period.Month, period.Year)
				if err != nil {
					return fmt.Errorf("failed to load budgets: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(budgets) == 0 {
					fmt.Fprintln(out, cli.InfoStyle.Render(fmt.Sprintf("No budgets for %s. Use 'sprout budget set' to add one.", period)))
					return nil
				}

				currency, err := displayCurrency(ctx, store)
				if err != nil {
					return err
				}
				total, err := store.Budgets().GetTotalBudget(ctx, period.Month, period.Year)
				if err != nil {
					return fmt.Errorf("failed to total budgets: %w", err)
				}

				fmt.Fprintln(out, cli.FormatTitle("Budgets for "+period.String()))
				fmt.Fprintln(out, renderBudgets(budgets, currency))
				fmt.Fprintf(out, "\nTotal budget: %s\n", currency.Format(total))
				return nil
			})
		},
	}

	periodFlags(cmd)

	return cmd
}

func renderBudgets(budgets []model.BudgetWithCategory, currency model.CurrencyCode) string {
	rows := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		remaining := currency.Format(b.Remaining())
		if b.Remaining() < 0 {
			remaining = cli.StyleError(remaining)
		}
		rows = append(rows, []string{
			b.CategoryIcon + " " + b.CategoryName,
			currency.Format(b.Spent),
			currency.Format(b.LimitAmount),
			remaining,
			cli.RenderMeter(b.UsedPercent(), 20),
			b.ID,
		})
	}
	return cli.RenderTable([]string{"Category", "Spent", "Limit", "Left", "Used", "ID"}, rows)
}

func deleteBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				if err := store.Budgets().Delete(ctx, args[0]); err != nil {
					return describeRowError("budget", args[0], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Budget deleted"))
				return nil
			})
		},
	}
}

func recommendBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest budgets from a month's income",
		Long: `Suggest a limit per expense category with the 50/30/20 rule: half of the
month's income for needs, 30% for wants and 20% for savings. Categories that
already spend well above their share get a suggestion closer to reality.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				recs, err := store.RecommendBudgets(ctx, period.Month, period.Year)
				if err != nil {
					return fmt.Errorf("failed to recommend budgets: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(recs) == 0 {
					fmt.Fprintln(out, cli.InfoStyle.Render(fmt.Sprintf("No income recorded for %s, nothing to recommend.", period)))
					return nil
				}

				currency, err := displayCurrency(ctx, store)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(recs))
				for _, rec := range recs {
					rows = append(rows, []string{
						rec.CategoryName,
						string(rec.Group),
						currency.Format(rec.RecommendedAmount),
						fmt.Sprintf("%.1f%%", rec.Percentage),
					})
				}
				fmt.Fprintln(out, cli.FormatTitle("Suggested budgets for "+period.String()))
				fmt.Fprintln(out, cli.RenderTable([]string{"Category", "Group", "Suggested", "Share"}, rows))
				return nil
			})
		},
	}

	periodFlags(cmd)

	return cmd
}
