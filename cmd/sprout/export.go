package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sprout/internal/cli"
	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/export"
	"github.com/Veraticus/sprout/internal/storage"
)

func exportCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export transactions as CSV",
		Long: `Export transactions as CSV, newest first. Use --from and --to (YYYY-MM-DD,
inclusive) to export a date range. Pass - to write to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (from == "") != (to == "") {
				return common.NewUserError("--from and --to must be used together", common.ErrInvalidInput)
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				exporter := export.NewExporter(store.Transactions(), store.PaymentMethods())
				write := func(w io.Writer) (int, error) {
					if from == "" {
						return exporter.WriteAll(ctx, w)
					}
					return exporter.WriteRange(ctx, w, from, to)
				}

				if args[0] == "-" {
					_, err := write(cmd.OutOrStdout())
					return describeExportError(err)
				}

				var count int
				err := writeFileAtomically(args[0], func(f *os.File) error {
					var werr error
					count, werr = write(f)
					return werr
				})
				if err != nil {
					return describeExportError(err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", count, args[0])))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date to include")
	cmd.Flags().StringVar(&to, "to", "", "last date to include")

	return cmd
}

func describeExportError(err error) error {
	if errors.Is(err, export.ErrNothingToExport) {
		return common.NewUserError("no transactions to export", err)
	}
	return err
}

// writeFileAtomically writes path through a temporary file that replaces it
// only once write succeeds.
func writeFileAtomically(path string, write func(f *os.File) error) error {
	tmpPath := path + ".tmp"
	// #nosec G304 - path is chosen by the local user
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	err = write(file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
