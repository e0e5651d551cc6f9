package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Veraticus/sprout/internal/common"
)

// columnSet is the list of columns an update will assign, built from a patch.
type columnSet struct {
	columns []string
	args    []any
}

func (c *columnSet) add(column string, value any) {
	c.columns = append(c.columns, column+" = ?")
	c.args = append(c.args, value)
}

func (c *columnSet) empty() bool {
	return len(c.columns) == 0
}

func (c *columnSet) clause() string {
	return strings.Join(c.columns, ", ")
}

// setIfPresent adds column only when the patch supplied a value for it.
func setIfPresent[T any](c *columnSet, column string, value *T) {
	if value != nil {
		c.add(column, *value)
	}
}

// updateRow applies set to the row with the given id, failing with
// common.ErrNotFound when no such row exists.
func updateRow(ctx context.Context, q queryable, table, id string, set columnSet) error {
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, set.clause())
	result, err := q.ExecContext(ctx, query, append(set.args, id)...)
	if err != nil {
		return classifyError(err)
	}
	return requireAffected(result, table, id)
}

// deleteRow removes the row with the given id.
func deleteRow(ctx context.Context, q queryable, table, id string) error {
	result, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return err
	}
	return requireAffected(result, table, id)
}

func requireAffected(result sql.Result, table, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s row %q: %w", table, id, common.ErrNotFound)
	}
	return nil
}
