// Package testutil provides shared fixtures for tests that need a ledger.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/sprout/internal/model"
	"github.com/Veraticus/sprout/internal/storage"
)

// TestDB is a migrated in-memory ledger that is closed when the test ends.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	// Now pins the store clock. Demo data is laid out relative to it.
	Now          func() time.Time
	CustomSetup  func(context.Context, *storage.SQLiteStorage) error
	SkipDefaults bool
	Demo         bool
}

// SetupTestDB creates an in-memory database with the default categories and
// payment methods seeded.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	var storeOpts []storage.Option
	if opts.Now != nil {
		storeOpts = append(storeOpts, storage.WithClock(opts.Now))
	}

	store, err := storage.NewSQLiteStorage(":memory:", storeOpts...)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if !opts.SkipDefaults || opts.Demo {
		if err := store.SeedDefaults(ctx); err != nil {
			t.Fatalf("failed to seed defaults: %v", err)
		}
	}

	if opts.Demo {
		if err := store.SeedDemoData(ctx); err != nil {
			t.Fatalf("failed to seed demo data: %v", err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustCategory returns the id of the named category or fails the test.
func (db *TestDB) MustCategory(name string) string {
	db.t.Helper()
	cat, err := db.Storage.Categories().GetByName(context.Background(), name)
	if err != nil || cat == nil {
		db.t.Fatalf("category %q not found: %v", name, err)
	}
	return cat.ID
}

// MustPaymentMethod returns the id of the named payment method or fails the test.
func (db *TestDB) MustPaymentMethod(name string) string {
	db.t.Helper()
	method, err := db.Storage.PaymentMethods().GetByName(context.Background(), name)
	if err != nil || method == nil {
		db.t.Fatalf("payment method %q not found: %v", name, err)
	}
	return method.ID
}

// MustAddTransaction records a transaction or fails the test.
func (db *TestDB) MustAddTransaction(input model.TransactionInput) *model.Transaction {
	db.t.Helper()
	txn, err := db.Storage.Transactions().Create(context.Background(), input)
	if err != nil {
		db.t.Fatalf("failed to create transaction: %v", err)
	}
	return txn
}
