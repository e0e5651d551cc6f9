package storage

import (
	"errors"
	"fmt"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/mattn/go-sqlite3"
)

// classifyError tags SQLite constraint failures with the matching taxonomy error
// while keeping the driver error in the chain.
func classifyError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %w", common.ErrDuplicateEntry, err)
	default:
		return fmt.Errorf("%w: %w", common.ErrConstraintViolation, err)
	}
}
