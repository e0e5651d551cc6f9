package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sprout/internal/cli"
	"github.com/Veraticus/sprout/internal/model"
	"github.com/Veraticus/sprout/internal/storage"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your profile",
	}

	cmd.AddCommand(showProfileCmd())
	cmd.AddCommand(setProfileCmd())

	return cmd
}

func showProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				profile, err := store.Profile().Get(ctx)
				if err != nil {
					return fmt.Errorf("failed to load profile: %w", err)
				}

				out := cmd.OutOrStdout()
				if profile == nil {
					fmt.Fprintln(out, cli.FormatInfo("No profile yet. Create one with 'sprout profile set --name --email'."))
					return nil
				}

				body := fmt.Sprintf("Name:     %s\nEmail:    %s\nCurrency: %s (%s)\nSince:    %s",
					profile.Name,
					profile.Email,
					profile.Currency,
					profile.Currency.Symbol(),
					profile.CreatedAt.Local().Format("January 2, 2006"),
				)
				fmt.Fprintln(out, cli.RenderBox("Profile", body))
				return nil
			})
		},
	}
}

func setProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create the profile or update some of its fields",
		Long: `Create the profile on first use, which needs --name and --email.
Afterwards only the flags you pass are changed.`,
		RunE: runSetProfile,
	}

	cmd.Flags().String("name", "", "your name")
	cmd.Flags().String("email", "", "your email address")
	cmd.Flags().String("currency", "", "display currency (USD, EUR, GBP, INR, JPY, CAD, AUD)")

	return cmd
}

func runSetProfile(cmd *cobra.Command, _ []string) error {
	return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		email, _ := flags.GetString("email")
		currency, _ := flags.GetString("currency")
		currencyCode := model.CurrencyCode(strings.ToUpper(currency))

		exists, err := store.Profile().Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check profile: %w", err)
		}

		out := cmd.OutOrStdout()
		if !exists {
			if currencyCode == "" {
				currencyCode = appConfig.Currency()
			}
			input := model.UserProfileInput{Name: name, Email: email, Currency: currencyCode}
			if err := validateInput(input); err != nil {
				return err
			}
			if _, err := store.Profile().Create(ctx, input); err != nil {
				return fmt.Errorf("failed to create profile: %w", err)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Welcome, %s!", name)))
			return nil
		}

		// Validate the changed fields against the same rules as a new profile
		current, err := store.Profile().Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		merged := model.UserProfileInput{Name: current.Name, Email: current.Email, Currency: current.Currency}

		var patch model.UserProfilePatch
		if flags.Changed("name") {
			patch.Name = &name
			merged.Name = name
		}
		if flags.Changed("email") {
			patch.Email = &email
			merged.Email = email
		}
		if flags.Changed("currency") {
			patch.Currency = &currencyCode
			merged.Currency = currencyCode
		}
		if err := validateInput(merged); err != nil {
			return err
		}

		if err := store.Profile().Update(ctx, patch); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		fmt.Fprintln(out, cli.FormatSuccess("Profile updated"))
		return nil
	})
}
