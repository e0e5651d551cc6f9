package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sprout/internal/cli"
	"github.com/Veraticus/sprout/internal/storage"
)

func seedCmd() *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed default categories and payment methods",
		Long: `Install the default categories and payment methods when the ledger has none.

With --demo, also create a sample profile with transactions, budgets and goals
for the current and previous month. Demo data is skipped when a profile exists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				out := cmd.OutOrStdout()
				if !demo {
					fmt.Fprintln(out, cli.FormatSuccess("Default categories and payment methods are in place"))
					return nil
				}

				exists, err := store.Profile().Exists(ctx)
				if err != nil {
					return fmt.Errorf("failed to check profile: %w", err)
				}
				if exists {
					fmt.Fprintln(out, cli.FormatInfo("A profile already exists, demo data was not added"))
					return nil
				}

				if err := store.SeedDemoData(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess("Demo data created"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "also create sample profile, transactions, budgets and goals")

	return cmd
}
