package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sprout/internal/cli"
	"github.com/Veraticus/sprout/internal/model"
	"github.com/Veraticus/sprout/internal/storage"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record and review transactions",
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		txType   string
		category string
		method   string
		date     string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record an income or expense",
		Example: `  sprout tx add 42.50 --category "Food & Dining" --note "Lunch"
  sprout tx add 5000 --type income --category Salary --method "Bank Transfer"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			if date == "" {
				date = time.Now().Format(model.DateLayout)
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				cat, err := resolveCategory(ctx, store, category)
				if err != nil {
					return err
				}
				pm, err := resolvePaymentMethod(ctx, store, method)
				if err != nil {
					return err
				}

				input := model.TransactionInput{
					Type:            model.TransactionType(txType),
					Amount:          amount,
					CategoryID:      cat.ID,
					Date:            date,
					Note:            note,
					PaymentMethodID: pm.ID,
				}
				if err := validateInput(input); err != nil {
					return err
				}

				txn, err := store.Transactions().Create(ctx, input)
				if err != nil {
					return fmt.Errorf("failed to record transaction: %w", err)
				}

				currency, err := displayCurrency(ctx, store)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s %s in %s on %s (ID: %s)",
					txn.Type, currency.Format(txn.Amount), cat.Name, txn.Date, txn.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&txType, "type", string(model.TransactionTypeExpense), "income or expense")
	cmd.Flags().StringVar(&category, "category", "", "category name or id")
	cmd.Flags().StringVar(&method, "method", "", "payment method name or id (default: the default method)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func listTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Long: `List transactions newest first. With --month or --year, list one calendar
month instead of paging through everything.`,
		RunE: runListTx,
	}

	periodFlags(cmd)
	cmd.Flags().Int("limit", storage.DefaultPageSize, "page size")
	cmd.Flags().Int("offset", 0, "rows to skip")

	return cmd
}

func runListTx(cmd *cobra.Command, _ []string) error {
	return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
		var (
			txns []model.TransactionWithCategory
			err  error
		)
		if cmd.Flags().Changed("month") || cmd.Flags().Changed("year") {
			period, perr := periodFromFlags(cmd)
			if perr != nil {
				return perr
			}
			txns, err = store.Transactions().GetByMonth(ctx, period.Month, period.Year)
		} else {
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			txns, err = store.Transactions().GetAll(ctx, limit, offset)
		}
		if err != nil {
			return fmt.Errorf("failed to list transactions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(txns) == 0 {
			fmt.Fprintln(out, cli.InfoStyle.Render("No transactions found. Use 'sprout tx add' to record one."))
			return nil
		}

		currency, err := displayCurrency(ctx, store)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(txns))
		for _, txn := range txns {
			name := txn.CategoryName
			if name == "" {
				name = cli.SubtleStyle.Render("Uncategorized")
			}
			rows = append(rows, []string{
				txn.Date,
				txn.CategoryIcon + " " + name,
				cli.FormatFlow(txn.Type == model.TransactionTypeIncome, currency.Format(txn.Amount)),
				txn.Note,
				txn.ID,
			})
		}
		fmt.Fprintln(out, cli.RenderTable([]string{"Date", "Category", "Amount", "Note", "ID"}, rows))
		return nil
	})
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				if err := store.Transactions().Delete(ctx, args[0]); err != nil {
					return describeRowError("transaction", args[0], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Transaction deleted"))
				return nil
			})
		},
	}
}
