package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/sprout/internal/model"
)

const categoryColumns = `id, name, icon, color, type, is_default`

// CategoryRepository persists categories.
type CategoryRepository struct {
	s *SQLiteStorage
}

// GetAll returns every category, defaults first and then by name.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return r.query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY is_default DESC, name ASC`)
}

// GetByType returns the categories of one transaction type.
func (r *CategoryRepository) GetByType(ctx context.Context, t model.TransactionType) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateType(t); err != nil {
		return nil, err
	}

	return r.query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE type = ?
		ORDER BY is_default DESC, name ASC`, string(t))
}

// GetByID returns the category with the given id, or nil if there is none.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return r.queryOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
}

// GetByName returns the first category with the given name, or nil if there is none.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	return r.queryOne(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE name = ?
		ORDER BY is_default DESC, id
		LIMIT 1`, name)
}

// Create stores a new category and returns it.
func (r *CategoryRepository) Create(ctx context.Context, input model.CategoryInput) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	category := &model.Category{
		ID:        r.s.newID(),
		Name:      input.Name,
		Icon:      input.Icon,
		Color:     input.Color,
		Type:      input.Type,
		IsDefault: input.IsDefault,
	}
	if err := insertCategory(ctx, r.s.q, category); err != nil {
		return nil, err
	}

	slog.Debug("created category", "id", category.ID, "name", category.Name)
	return category, nil
}

// Update changes the fields present in patch. An empty patch does nothing.
func (r *CategoryRepository) Update(ctx context.Context, id string, patch model.CategoryPatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var set columnSet
	setIfPresent(&set, "name", patch.Name)
	setIfPresent(&set, "icon", patch.Icon)
	setIfPresent(&set, "color", patch.Color)
	if patch.Type != nil {
		set.add("type", string(*patch.Type))
	}
	setIfPresent(&set, "is_default", patch.IsDefault)
	if set.empty() {
		return nil
	}

	if err := updateRow(ctx, r.s.q, "categories", id, set); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// Delete removes a category. Transactions and budgets that reference it are left as they are.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if err := deleteRow(ctx, r.s.q, "categories", id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// Count returns the number of stored categories.
func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := r.s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

func (r *CategoryRepository) query(ctx context.Context, query string, args ...any) ([]model.Category, error) {
	rows, err := r.s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

func (r *CategoryRepository) queryOne(ctx context.Context, query string, args ...any) (*model.Category, error) {
	category, err := scanCategory(r.s.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func insertCategory(ctx context.Context, q queryable, c *model.Category) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO categories (id, name, icon, color, type, is_default)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Icon, c.Color, string(c.Type), c.IsDefault)
	if err != nil {
		return fmt.Errorf("failed to create category %q: %w", c.Name, classifyError(err))
	}
	return nil
}

func scanCategory(row scanner) (model.Category, error) {
	var (
		category model.Category
		kind     string
	)
	if err := row.Scan(&category.ID, &category.Name, &category.Icon, &category.Color, &kind, &category.IsDefault); err != nil {
		return model.Category{}, fmt.Errorf("failed to scan category: %w", err)
	}
	category.Type = model.TransactionType(kind)
	return category, nil
}
