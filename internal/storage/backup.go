package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
)

// BackupVersion is written into every backup document.
const BackupVersion = "1.0.0"

// ErrInvalidBackup is returned for a backup document without a version or timestamp.
var ErrInvalidBackup = fmt.Errorf("%w: invalid backup file format", common.ErrInvalidInput)

// BackupDocument is the portable JSON form of the whole ledger. Settings is an
// opaque blob owned by the caller and round-tripped untouched.
type BackupDocument struct {
	Timestamp      time.Time             `json:"timestamp"`
	Settings       json.RawMessage       `json:"settings,omitempty"`
	Version        string                `json:"version"`
	Transactions   []model.Transaction   `json:"transactions"`
	Budgets        []model.Budget        `json:"budgets"`
	Goals          []model.Goal          `json:"goals"`
	Categories     []model.Category      `json:"categories"`
	PaymentMethods []model.PaymentMethod `json:"paymentMethods"`
}

// Rows is the number of rows Restore re-creates from the document.
func (d *BackupDocument) Rows() int {
	return len(d.Transactions) + len(d.Budgets) + len(d.Goals)
}

// RestoreOptions tunes Restore.
type RestoreOptions struct {
	// OnRow is called after each row is re-created.
	OnRow func()
}

// Snapshot collects every collection into a backup document.
func (s *SQLiteStorage) Snapshot(ctx context.Context, settings json.RawMessage) (*BackupDocument, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	doc := &BackupDocument{
		Version:   BackupVersion,
		Timestamp: s.timestamp(),
		Settings:  settings,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txns, err := s.transactions.List(gctx)
		if err != nil {
			return err
		}
		doc.Transactions = make([]model.Transaction, 0, len(txns))
		for _, txn := range txns {
			doc.Transactions = append(doc.Transactions, txn.Transaction)
		}
		return nil
	})
	g.Go(func() (err error) {
		doc.Budgets, err = s.budgets.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		doc.Goals, err = s.goals.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		doc.Categories, err = s.categories.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		doc.PaymentMethods, err = s.paymentMethods.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to snapshot ledger: %w", err)
	}

	return doc, nil
}

// Backup writes a snapshot of the ledger to w as indented JSON.
func (s *SQLiteStorage) Backup(ctx context.Context, w io.Writer, settings json.RawMessage) (*BackupDocument, error) {
	doc, err := s.Snapshot(ctx, settings)
	if err != nil {
		return nil, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return doc, nil
}

// BackupToFile writes a backup to path through a temporary file, so an
// interrupted write never leaves a truncated backup behind.
func (s *SQLiteStorage) BackupToFile(ctx context.Context, path string, settings json.RawMessage) (*BackupDocument, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	tmpPath := path + ".tmp"
	// #nosec G304 - path is chosen by the local user
	file, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}

	doc, err := s.Backup(ctx, file, settings)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if removeErr := os.Remove(tmpPath); removeErr != nil {
			slog.Warn("failed to remove temporary backup", "path", tmpPath, "error", removeErr)
		}
		return nil, err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("failed to finalize backup: %w", err)
	}

	slog.Info("Created backup", "path", path, "transactions", len(doc.Transactions))
	return doc, nil
}

// ReadBackup decodes and validates a backup document.
func ReadBackup(r io.Reader) (*BackupDocument, error) {
	var doc BackupDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	if doc.Version == "" || doc.Timestamp.IsZero() {
		return nil, ErrInvalidBackup
	}
	return &doc, nil
}

// Restore replaces every transaction, budget and goal with the rows in doc.
// Categories and payment methods are kept as they are. Rows are re-created with
// fresh ids and timestamps. The replacement is not atomic: a failure part-way
// leaves the rows restored so far in place.
func (s *SQLiteStorage) Restore(ctx context.Context, doc *BackupDocument, opts RestoreOptions) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if doc == nil || doc.Version == "" || doc.Timestamp.IsZero() {
		return ErrInvalidBackup
	}

	for _, table := range []string{"transactions", "budgets", "goals"} {
		if _, err := s.q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	progress := func() {
		if opts.OnRow != nil {
			opts.OnRow()
		}
	}

	for _, txn := range doc.Transactions {
		if _, err := s.transactions.Create(ctx, model.TransactionInput{
			Type:            txn.Type,
			Amount:          txn.Amount,
			CategoryID:      txn.CategoryID,
			Date:            txn.Date,
			Note:            txn.Note,
			PaymentMethodID: txn.PaymentMethodID,
		}); err != nil {
			return fmt.Errorf("failed to restore transaction %s: %w", txn.ID, err)
		}
		progress()
	}

	for _, b := range doc.Budgets {
		if _, err := s.budgets.Create(ctx, model.BudgetInput{
			CategoryID:  b.CategoryID,
			Month:       b.Month,
			Year:        b.Year,
			LimitAmount: b.LimitAmount,
		}); err != nil {
			return fmt.Errorf("failed to restore budget %s: %w", b.ID, err)
		}
		progress()
	}

	for _, g := range doc.Goals {
		if _, err := s.goals.Create(ctx, model.GoalInput{
			Title:         g.Title,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
			Deadline:      g.Deadline,
			Icon:          g.Icon,
		}); err != nil {
			return fmt.Errorf("failed to restore goal %s: %w", g.ID, err)
		}
		progress()
	}

	slog.Info("Restored backup",
		"version", doc.Version,
		"taken", doc.Timestamp,
		"transactions", len(doc.Transactions),
		"budgets", len(doc.Budgets),
		"goals", len(doc.Goals))
	return nil
}

// ReadBackupFile reads and validates the backup at path. A missing file
// reports ErrNotFound.
func ReadBackupFile(path string) (*BackupDocument, error) {
	// #nosec G304 - path is chosen by the local user
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("backup %s: %w", path, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadBackup(file)
}

// RestoreFromFile reads a backup from path and restores it.
func (s *SQLiteStorage) RestoreFromFile(ctx context.Context, path string, opts RestoreOptions) (*BackupDocument, error) {
	doc, err := ReadBackupFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.Restore(ctx, doc, opts); err != nil {
		return nil, err
	}
	return doc, nil
}
