package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sprout/internal/model"
	"github.com/Veraticus/sprout/internal/storage"
)

func TestSetupTestDB(t *testing.T) {
	db := SetupTestDB(t)
	ctx := context.Background()

	count, err := db.Storage.Categories().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(storage.DefaultExpenseCategories)+len(storage.DefaultIncomeCategories), count)

	txn := db.MustAddTransaction(model.TransactionInput{
		Type:            model.TransactionTypeExpense,
		Amount:          9.99,
		CategoryID:      db.MustCategory("Entertainment"),
		Date:            "2024-03-01",
		PaymentMethodID: db.MustPaymentMethod("Credit Card"),
	})
	assert.NotEmpty(t, txn.ID)
}

func TestSetupTestDBWithOptions(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		db := SetupTestDBWithOptions(t, TestDBOptions{SkipDefaults: true})

		count, err := db.Storage.Categories().Count(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("demo data at a fixed date", func(t *testing.T) {
		db := SetupTestDBWithOptions(t, TestDBOptions{
			Demo: true,
			Now: func() time.Time {
				return time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
			},
		})

		summary, err := db.Storage.Transactions().GetMonthSummary(context.Background(), 3, 2024)
		require.NoError(t, err)
		assert.Positive(t, summary.TransactionCount)
	})

	t.Run("custom setup", func(t *testing.T) {
		called := false
		SetupTestDBWithOptions(t, TestDBOptions{
			CustomSetup: func(_ context.Context, store *storage.SQLiteStorage) error {
				called = store != nil
				return nil
			},
		})
		assert.True(t, called)
	})
}
