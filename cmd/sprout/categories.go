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

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
		Long:  `List, add, and delete the categories transactions and budgets are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Long:  `Display categories, defaults first, optionally limited to income or expense.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				var (
					categories []model.Category
					err        error
				)
				if txType == "" {
					categories, err = store.Categories().GetAll(ctx)
				} else {
					categories, err = store.Categories().GetByType(ctx, model.TransactionType(txType))
				}
				if err != nil {
					return fmt.Errorf("failed to get categories: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(categories) == 0 {
					fmt.Fprintln(out, cli.InfoStyle.Render("No categories found. Use 'sprout categories add' to create one."))
					return nil
				}

				rows := make([][]string, 0, len(categories))
				for _, cat := range categories {
					def := ""
					if cat.IsDefault {
						def = cli.SuccessIcon
					}
					rows = append(rows, []string{cat.Icon, cat.Name, string(cat.Type), cat.Color, def, cat.ID})
				}
				fmt.Fprintln(out, cli.RenderTable([]string{"", "Name", "Type", "Color", "Default", "ID"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&txType, "type", "", "only show income or expense categories")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var input model.CategoryInput
	var txType string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Name = args[0]
			input.Type = model.TransactionType(txType)
			if err := validateInput(input); err != nil {
				return err
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				existing, err := store.Categories().GetByName(ctx, input.Name)
				if err != nil {
					return fmt.Errorf("failed to check existing category: %w", err)
				}
				if existing != nil {
					return common.NewUserError(fmt.Sprintf("category %q already exists", input.Name), common.ErrDuplicateEntry)
				}

				category, err := store.Categories().Create(ctx, input)
				if err != nil {
					return fmt.Errorf("failed to create category: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %q (ID: %s)", category.Name, category.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&txType, "type", string(model.TransactionTypeExpense), "income or expense")
	cmd.Flags().StringVar(&input.Icon, "icon", "📦", "icon shown next to the name")
	cmd.Flags().StringVar(&input.Color, "color", "#95A5A6", "hex color")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long: `Delete a category by id. Transactions filed under it are kept and show
up as uncategorized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				if err := store.Categories().Delete(ctx, args[0]); err != nil {
					return describeRowError("category", args[0], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Category deleted"))
				return nil
			})
		},
	}
}
