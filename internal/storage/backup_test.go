package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sprout/internal/common"
)

func TestBackup_Document(t *testing.T) {
	now := time.Date(2024, 3, 18, 12, 0, 0, 0, time.UTC)
	store, cleanup := createSeededStorage(t, WithClock(fixedClock(now)))
	defer cleanup()
	ctx := context.Background()
	require.NoError(t, store.SeedDemoData(ctx))

	var buf bytes.Buffer
	doc, err := store.Backup(ctx, &buf, json.RawMessage(`{"theme":"dark"}`))
	require.NoError(t, err)
	assert.Equal(t, BackupVersion, doc.Version)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	for _, key := range []string{"version", "timestamp", "settings", "transactions", "budgets", "goals", "categories", "paymentMethods"} {
		assert.Contains(t, raw, key)
	}
	assert.JSONEq(t, `{"theme":"dark"}`, string(raw["settings"]))

	decoded, err := ReadBackup(&buf)
	require.NoError(t, err)
	assert.Len(t, decoded.Transactions, len(demoTransactions))
	assert.Len(t, decoded.Budgets, len(demoBudgets))
	assert.Len(t, decoded.Goals, 3)
	assert.Len(t, decoded.Categories, 18)
	assert.Len(t, decoded.PaymentMethods, 6)
	assert.Equal(t, len(demoTransactions)+len(demoBudgets)+3, decoded.Rows())
}

func TestBackup_RestoreReplacesData(t *testing.T) {
	now := time.Date(2024, 3, 18, 12, 0, 0, 0, time.UTC)
	source, cleanupSource := createSeededStorage(t, WithClock(fixedClock(now)))
	defer cleanupSource()
	ctx := context.Background()
	require.NoError(t, source.SeedDemoData(ctx))

	path := filepath.Join(t.TempDir(), "backups", "ledger.json")
	_, err := source.BackupToFile(ctx, path, nil)
	require.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file must be renamed away")

	target, cleanupTarget := createSeededStorage(t)
	defer cleanupTarget()
	createTransactions(t, target, expenseInput("stale", "2020-01-01", 1))

	rows := 0
	doc, err := target.RestoreFromFile(ctx, path, RestoreOptions{OnRow: func() { rows++ }})
	require.NoError(t, err)
	assert.Equal(t, doc.Rows(), rows)

	count, err := target.Transactions().GetCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(demoTransactions), count)

	want, err := source.Transactions().GetMonthSummary(ctx, 3, 2024)
	require.NoError(t, err)
	got, err := target.Transactions().GetMonthSummary(ctx, 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	goals, err := target.Goals().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, goals, 3)
}

func TestReadBackup_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "definitely not json"},
		{name: "missing version", input: `{"timestamp":"2024-01-01T00:00:00Z"}`},
		{name: "missing timestamp", input: `{"version":"1.0.0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBackup(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrInvalidBackup)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
}

func TestRestore_RejectsInvalidDocumentBeforeDeleting(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	createTransactions(t, store, expenseInput("food", "2024-01-01", 1))

	require.ErrorIs(t, store.Restore(ctx, &BackupDocument{}, RestoreOptions{}), ErrInvalidBackup)

	count, err := store.Transactions().GetCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRestoreFromFile_Missing(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.RestoreFromFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"), RestoreOptions{})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
