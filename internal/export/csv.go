// Package export writes transactions out in portable formats.
package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/sprout/internal/model"
	"github.com/Veraticus/sprout/internal/service"
)

// Header is the first line of every CSV export.
const Header = "Date,Type,Category,Amount,Payment Method,Note"

// unknownName stands in for a category or payment method that no longer exists.
const unknownName = "Unknown"

// ErrNothingToExport is returned when the selection holds no transactions.
var ErrNothingToExport = errors.New("no transactions to export")

// Exporter writes stored transactions as CSV.
type Exporter struct {
	transactions service.TransactionReader
	methods      service.PaymentMethodRepository
}

// NewExporter creates an exporter over the given repositories.
func NewExporter(transactions service.TransactionReader, methods service.PaymentMethodRepository) *Exporter {
	return &Exporter{transactions: transactions, methods: methods}
}

// WriteAll writes every transaction, newest first, and returns how many were written.
func (e *Exporter) WriteAll(ctx context.Context, w io.Writer) (int, error) {
	txns, err := e.transactions.List(ctx)
	if err != nil {
		return 0, err
	}
	return e.write(ctx, w, txns)
}

// WriteRange writes the transactions dated between start and end inclusive.
func (e *Exporter) WriteRange(ctx context.Context, w io.Writer, start, end string) (int, error) {
	txns, err := e.transactions.GetByDateRange(ctx, start, end)
	if err != nil {
		return 0, err
	}
	return e.write(ctx, w, txns)
}

func (e *Exporter) write(ctx context.Context, w io.Writer, txns []model.TransactionWithCategory) (int, error) {
	if len(txns) == 0 {
		return 0, ErrNothingToExport
	}

	methods, err := e.methods.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	names := make(map[string]string, len(methods))
	for _, m := range methods {
		names[m.ID] = m.Name
	}

	if err := WriteCSV(w, txns, names); err != nil {
		return 0, err
	}
	return len(txns), nil
}

// WriteCSV renders txns as CSV. methodNames maps payment method ids to names.
// The note column is always quoted.
func WriteCSV(w io.Writer, txns []model.TransactionWithCategory, methodNames map[string]string) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, txn := range txns {
		category := txn.CategoryName
		if category == "" {
			category = unknownName
		}
		method, ok := methodNames[txn.PaymentMethodID]
		if !ok {
			method = unknownName
		}

		fields := []string{
			txn.Date,
			capitalize(string(txn.Type)),
			escape(category),
			decimal.NewFromFloat(txn.Amount).String(),
			escape(method),
			quote(txn.Note),
		}
		if _, err := bw.WriteString("\n" + strings.Join(fields, ",")); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// escape quotes a field only when it would otherwise break the row.
func escape(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
