package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sprout/internal/cli"
	"github.com/Veraticus/sprout/internal/model"
	"github.com/Veraticus/sprout/internal/storage"
)

func methodsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "methods",
		Short: "Manage payment methods",
	}

	cmd.AddCommand(listMethodsCmd())
	cmd.AddCommand(addMethodCmd())
	cmd.AddCommand(defaultMethodCmd())

	return cmd
}

func listMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List payment methods",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				methods, err := store.PaymentMethods().GetAll(ctx)
				if err != nil {
					return fmt.Errorf("failed to get payment methods: %w", err)
				}

				rows := make([][]string, 0, len(methods))
				for _, m := range methods {
					def := ""
					if m.IsDefault {
						def = cli.SuccessIcon
					}
					rows = append(rows, []string{m.Icon, m.Name, def, m.ID})
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable([]string{"", "Name", "Default", "ID"}, rows))
				return nil
			})
		},
	}
}

func addMethodCmd() *cobra.Command {
	var input model.PaymentMethodInput

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a payment method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Name = args[0]
			if err := validateInput(input); err != nil {
				return err
			}

			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				method, err := store.PaymentMethods().Create(ctx, input)
				if err != nil {
					return fmt.Errorf("failed to create payment method: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created payment method %q (ID: %s)", method.Name, method.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.Icon, "icon", "💳", "icon shown next to the name")
	cmd.Flags().BoolVar(&input.IsDefault, "default", false, "make this the default payment method")

	return cmd
}

func defaultMethodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default <name>",
		Short: "Make a payment method the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				method, err := resolvePaymentMethod(ctx, store, args[0])
				if err != nil {
					return err
				}

				isDefault := true
				if err := store.PaymentMethods().Update(ctx, method.ID, model.PaymentMethodPatch{IsDefault: &isDefault}); err != nil {
					return fmt.Errorf("failed to update payment method: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s is now the default payment method", method.Name)))
				return nil
			})
		},
	}
}
