package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sprout/internal/cli"
	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
	"github.com/Veraticus/sprout/internal/storage"
)

func goalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals"},
		Short:   "Track savings goals",
	}

	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(listGoalCmd())
	cmd.AddCommand(fundGoalCmd())
	cmd.AddCommand(deleteGoalCmd())

	return cmd
}

func addGoalCmd() *cobra.Command {
	var input model.GoalInput

	cmd := &cobra.Command{
		Use:     "add <title> <target>",
		Short:   "Add a savings goal",
		Example: `  sprout goal add "Emergency Fund" 10000 --deadline 2025-12-31 --icon 🛡️`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			input.Title = args[0]
			input.TargetAmount = target
			if err := validateInput(input); err != nil {
				return err
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				goal, err := store.Goals().Create(ctx, input)
				if err != nil {
					return fmt.Errorf("failed to create goal: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created goal %q (ID: %s)", goal.Title, goal.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.Deadline, "deadline", "", "target date as YYYY-MM-DD")
	cmd.Flags().StringVar(&input.Icon, "icon", cli.GoalIcon, "icon shown next to the title")
	cmd.Flags().Float64Var(&input.CurrentAmount, "saved", 0, "amount already saved")

	return cmd
}

func listGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals by deadline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				goals, err := store.Goals().GetAll(ctx)
				if err != nil {
					return fmt.Errorf("failed to load goals: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(goals) == 0 {
					fmt.Fprintln(out, cli.InfoStyle.Render("No goals yet. Use 'sprout goal add' to start saving."))
					return nil
				}

				currency, err := displayCurrency(ctx, store)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderGoals(goals, currency))
				return nil
			})
		},
	}
}

func renderGoals(goals []model.Goal, currency model.CurrencyCode) string {
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		deadline := g.Deadline
		if deadline == "" {
			deadline = cli.SubtleStyle.Render("none")
		}
		saved := currency.Format(g.CurrentAmount) + " / " + currency.Format(g.TargetAmount)
		if g.Reached() {
			saved = cli.StyleSuccess(saved)
		}
		rows = append(rows, []string{
			g.Icon + " " + g.Title,
			saved,
			cli.RenderMeter(g.Progress(), 20),
			deadline,
			g.ID,
		})
	}
	return cli.RenderTable([]string{"Goal", "Saved", "Progress", "Deadline", "ID"}, rows)
}

func fundGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fund <id> <amount>",
		Short: "Add money to a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if err := inputValidator.Amount(amount); err != nil {
				return common.NewUserError(err.Error(), err)
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				if err := store.Goals().AddFunds(ctx, args[0], amount); err != nil {
					return describeRowError("goal", args[0], err)
				}

				goal, err := store.Goals().GetByID(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to reload goal: %w", err)
				}
				currency, err := displayCurrency(ctx, store)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added %s to %s (%s of %s)",
					currency.Format(amount), goal.Title, currency.Format(goal.CurrentAmount), currency.Format(goal.TargetAmount))))
				if goal.Reached() {
					fmt.Fprintln(out, cli.StyleSuccess(cli.GoalIcon+" Goal reached!"))
				}
				return nil
			})
		},
	}
}

func deleteGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				if err := store.Goals().Delete(ctx, args[0]); err != nil {
					return describeRowError("goal", args[0], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Goal deleted"))
				return nil
			})
		},
	}
}
