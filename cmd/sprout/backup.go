package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sprout/internal/cli"
	"github.com/Veraticus/sprout/internal/storage"
)

// backupSettings is the part of the configuration carried inside a backup.
type backupSettings struct {
	Currency string `json:"currency"`
}

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up or restore the ledger as JSON",
	}

	cmd.AddCommand(createBackupCmd())
	cmd.AddCommand(restoreBackupCmd())

	return cmd
}

func createBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [file]",
		Short: "Write a backup of every transaction, budget, goal, category and payment method",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(appConfig.Backup.Dir, "sprout-backup-"+time.Now().Format("2006-01-02")+".json")
			if len(args) == 1 {
				path = args[0]
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				currency, err := displayCurrency(ctx, store)
				if err != nil {
					return err
				}
				settings, err := json.Marshal(backupSettings{Currency: string(currency)})
				if err != nil {
					return fmt.Errorf("failed to encode settings: %w", err)
				}

				doc, err := store.BackupToFile(ctx, path, settings)
				if err != nil {
					return fmt.Errorf("failed to write backup: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
					"Backed up %d transactions, %d budgets and %d goals to %s",
					len(doc.Transactions), len(doc.Budgets), len(doc.Goals), path)))
				return nil
			})
		},
	}
}

func restoreBackupCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace transactions, budgets and goals with a backup",
		Long: `Replace every transaction, budget and goal with the contents of a backup.
Categories and payment methods are left as they are. Restored rows get new ids.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := storage.ReadBackupFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Backup version %s taken %s: %d transactions, %d budgets, %d goals",
				doc.Version, doc.Timestamp.Local().Format("Jan 2, 2006 15:04"),
				len(doc.Transactions), len(doc.Budgets), len(doc.Goals))))

			if !yes {
				reader := cli.NewNonBlockingReader(cmd.InOrStdin())
				ok, err := cli.Confirm(cmd.Context(), reader, out, "This deletes all current transactions, budgets and goals. Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.FormatWarning("Restore canceled"))
					return nil
				}
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				interrupts := cli.NewInterruptHandler(out, "Restore").
					WithHint("The ledger may be partly restored. Run 'sprout backup restore' again to finish.")
				ctx = interrupts.HandleInterrupts(ctx)
				defer interrupts.Stop()

				var opts storage.RestoreOptions
				if doc.Rows() > 0 {
					bar := cli.NewProgressBar(cmd.ErrOrStderr(), doc.Rows(), "Restoring")
					opts.OnRow = cli.Ticker(bar)
				}
				if err := store.Restore(ctx, doc, opts); err != nil {
					return fmt.Errorf("failed to restore backup: %w", err)
				}

				fmt.Fprintln(out, cli.FormatSuccess("Backup restored"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
