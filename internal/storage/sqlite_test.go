package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sprout/internal/metrics"
)

// createTestStorage opens a migrated file-backed store in a temporary directory.
func createTestStorage(t *testing.T, opts ...Option) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath, opts...)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// createSeededStorage is createTestStorage with the default catalog in place.
func createSeededStorage(t *testing.T, opts ...Option) (*SQLiteStorage, func()) {
	t.Helper()
	store, cleanup := createTestStorage(t, opts...)
	if err := store.SeedDefaults(context.Background()); err != nil {
		cleanup()
		t.Fatalf("Failed to seed defaults: %v", err)
	}
	return store, cleanup
}

// fixedClock returns a clock that starts at start and advances one second per reading.
func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(time.Second)
		return now
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("creates missing directories", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", "ledger.db")

		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		assert.Equal(t, dbPath, store.Path())
		_, err = os.Stat(filepath.Dir(dbPath))
		assert.NoError(t, err)
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		assert.ErrorIs(t, err, ErrEmptyString)
	})

	t.Run("in-memory database survives between calls", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		ctx := context.Background()
		require.NoError(t, store.Migrate(ctx))
		version, err := store.SchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, ExpectedSchemaVersion, version)
	})
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.SeedDefaults(ctx))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	require.NoError(t, reopened.Migrate(ctx))
	require.NoError(t, reopened.SeedDefaults(ctx))

	count, err := reopened.Categories().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultExpenseCategories)+len(DefaultIncomeCategories), count)
}

func TestSQLiteStorage_Metrics(t *testing.T) {
	m := metrics.NewMetrics()
	store, cleanup := createTestStorage(t, WithMetrics(m))
	defer cleanup()

	_, err := store.Transactions().GetCount(context.Background())
	require.NoError(t, err)

	counts, err := m.Snapshot()
	require.NoError(t, err)

	verbs := make(map[string]uint64)
	for _, c := range counts {
		verbs[c.Verb] = c.Count
	}
	assert.Positive(t, verbs["select"])
	assert.Positive(t, verbs["create"])
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{
			name:  "stored layout",
			value: "2024-01-15T10:30:00.123Z",
			want:  time.Date(2024, 1, 15, 10, 30, 0, 123_000_000, time.UTC),
		},
		{
			name:  "rfc3339 with offset",
			value: "2024-01-15T12:30:00+02:00",
			want:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "sqlite default",
			value: "2024-01-15 10:30:00",
			want:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}

	_, err := parseTimestamp("last tuesday")
	assert.Error(t, err)
}

func TestFormatTimestamp_RoundTrip(t *testing.T) {
	original := time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC)
	parsed, err := parseTimestamp(formatTimestamp(original))
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}

func TestStatementVerb(t *testing.T) {
	assert.Equal(t, "select", statementVerb("\n\t\tSELECT * FROM goals"))
	assert.Equal(t, "insert", statementVerb("INSERT INTO goals VALUES (?)"))
	assert.Equal(t, "unknown", statementVerb("   "))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	errBoom := errors.New("boom")
	err := store.withTx(ctx, func(q queryable) error {
		if _, err := q.ExecContext(ctx, `INSERT INTO goals (id, title, target_amount) VALUES ('g1', 'Bike', 500)`); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	goal, err := store.Goals().GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Nil(t, goal)
}
