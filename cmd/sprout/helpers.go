package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
	"github.com/Veraticus/sprout/internal/storage"
	"github.com/Veraticus/sprout/internal/validation"
)

var inputValidator = validation.New()

// openStorage opens the configured database without touching its schema.
func openStorage() (*storage.SQLiteStorage, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("%w: configuration not loaded", common.ErrInvalidConfig)
	}
	store, err := storage.NewSQLiteStorage(appConfig.Database.Path, storage.WithMetrics(storeMetrics))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// initStorage opens the database and runs the startup lifecycle: migrate,
// seed the default catalog, then demo data when configured.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := openStorage()
	if err != nil {
		return nil, err
	}

	if err := prepareStorage(ctx, store, appConfig.Demo.Enabled); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func prepareStorage(ctx context.Context, store *storage.SQLiteStorage, demo bool) error {
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := store.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed defaults: %w", err)
	}
	if demo {
		if err := store.SeedDemoData(ctx); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}
	return nil
}

// withStorage runs fn against an initialized store and closes it afterwards.
func withStorage(cmd *cobra.Command, fn func(ctx context.Context, store *storage.SQLiteStorage) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return fn(ctx, store)
}

// displayCurrency prefers the profile's currency over the configured default.
func displayCurrency(ctx context.Context, store *storage.SQLiteStorage) (model.CurrencyCode, error) {
	profile, err := store.Profile().Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}
	if profile != nil && profile.Currency.Valid() {
		return profile.Currency, nil
	}
	return appConfig.Currency(), nil
}

// resolveCategory accepts a category name or id.
func resolveCategory(ctx context.Context, store *storage.SQLiteStorage, ref string) (*model.Category, error) {
	cat, err := store.Categories().GetByName(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}
	if cat == nil {
		cat, err = store.Categories().GetByID(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to look up category: %w", err)
		}
	}
	if cat == nil {
		return nil, common.NewUserError(fmt.Sprintf("no category named %q", ref), common.ErrNotFound)
	}
	return cat, nil
}

// resolvePaymentMethod accepts a payment method name or id. An empty
// reference selects the default method.
func resolvePaymentMethod(ctx context.Context, store *storage.SQLiteStorage, ref string) (*model.PaymentMethod, error) {
	var (
		method *model.PaymentMethod
		err    error
	)
	if ref == "" {
		method, err = store.PaymentMethods().GetDefault(ctx)
	} else {
		method, err = store.PaymentMethods().GetByName(ctx, ref)
		if err == nil && method == nil {
			method, err = store.PaymentMethods().GetByID(ctx, ref)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment method: %w", err)
	}
	if method == nil {
		if ref == "" {
			return nil, common.NewUserError("no default payment method, pass --method", common.ErrNotFound)
		}
		return nil, common.NewUserError(fmt.Sprintf("no payment method named %q", ref), common.ErrNotFound)
	}
	return method, nil
}

// periodFlags adds --month and --year, defaulting to the current month.
func periodFlags(cmd *cobra.Command) {
	cmd.Flags().Int("month", 0, "month (1-12, default: current month)")
	cmd.Flags().Int("year", 0, "year (default: current year)")
}

// periodFromFlags reads --month and --year, filling gaps from today.
func periodFromFlags(cmd *cobra.Command) (model.Period, error) {
	current := model.PeriodOf(time.Now())
	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")
	if month == 0 {
		month = current.Month
	}
	if year == 0 {
		year = current.Year
	}

	period, err := model.NewPeriod(month, year)
	if err != nil {
		return model.Period{}, common.NewUserError(
			fmt.Sprintf("%d/%d is not a valid month", month, year),
			fmt.Errorf("%w: %w", common.ErrInvalidInput, err),
		)
	}
	return period, nil
}

// parseAmount reads a money amount argument. Callers check the sign.
func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, common.NewUserError(fmt.Sprintf("%q is not an amount", raw), common.ErrInvalidInput)
	}
	return amount, nil
}

// describeRowError turns a missing-row error into a message naming the entity.
func describeRowError(entity, id string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NewUserError(fmt.Sprintf("no %s with id %s", entity, id), err)
	}
	return err
}

// validateInput checks input against its struct tags and reports failing
// fields by name.
func validateInput(input any) error {
	if err := inputValidator.Struct(input); err != nil {
		return common.NewUserError(err.Error(), err)
	}
	return nil
}
