// Package storage provides the data persistence layer for the ledger.
package storage

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
)

// Validation errors. All of them wrap common.ErrInvalidInput.
var (
	ErrNilContext    = fmt.Errorf("%w: context cannot be nil", common.ErrInvalidInput)
	ErrEmptyString   = fmt.Errorf("%w: string parameter cannot be empty", common.ErrInvalidInput)
	ErrInvalidPeriod = fmt.Errorf("%w: %w", common.ErrInvalidInput, model.ErrInvalidPeriod)
	ErrInvalidDate   = fmt.Errorf("%w: invalid date", common.ErrInvalidInput)
	ErrInvalidAmount = fmt.Errorf("%w: amount must be a finite number", common.ErrInvalidInput)
	ErrInvalidType   = fmt.Errorf("%w: invalid transaction type", common.ErrInvalidInput)
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validatePeriod(month, year int) (model.Period, error) {
	p, err := model.NewPeriod(month, year)
	if err != nil {
		return model.Period{}, fmt.Errorf("%w: %d/%d", ErrInvalidPeriod, month, year)
	}
	return p, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// validateDateRange checks both bounds and their order. An equal start and end is a one-day range.
func validateDateRange(start, end string) error {
	if err := validateDate(start); err != nil {
		return err
	}
	if err := validateDate(end); err != nil {
		return err
	}
	if start > end {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidDate, start, end)
	}
	return nil
}

func validateType(t model.TransactionType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	return nil
}

// validateAmount rejects NaN and infinities, which SQLite would silently store as NULL.
// Positivity is left to the column constraints.
func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}
