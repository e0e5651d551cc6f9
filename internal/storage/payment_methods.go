package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/sprout/internal/model"
)

const paymentMethodColumns = `id, name, icon, is_default`

// PaymentMethodRepository persists payment methods. Setting a method as the
// default clears the flag on every other method in the same transaction.
type PaymentMethodRepository struct {
	s *SQLiteStorage
}

// GetAll returns every payment method, the default first and then by name.
func (r *PaymentMethodRepository) GetAll(ctx context.Context) ([]model.PaymentMethod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := r.s.q.QueryContext(ctx, `
		SELECT `+paymentMethodColumns+`
		FROM payment_methods
		ORDER BY is_default DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment methods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var methods []model.PaymentMethod
	for rows.Next() {
		method, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment methods: %w", err)
	}

	slog.Debug("retrieved payment methods", "count", len(methods))
	return methods, nil
}

// GetByID returns the payment method with the given id, or nil if there is none.
func (r *PaymentMethodRepository) GetByID(ctx context.Context, id string) (*model.PaymentMethod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return r.queryOne(ctx, `SELECT `+paymentMethodColumns+` FROM payment_methods WHERE id = ?`, id)
}

// GetByName returns the payment method with the given name, or nil if there is none.
func (r *PaymentMethodRepository) GetByName(ctx context.Context, name string) (*model.PaymentMethod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	return r.queryOne(ctx, `
		SELECT `+paymentMethodColumns+`
		FROM payment_methods
		WHERE name = ?
		ORDER BY is_default DESC, id
		LIMIT 1`, name)
}

// GetDefault returns the default payment method, or nil if none is flagged.
func (r *PaymentMethodRepository) GetDefault(ctx context.Context) (*model.PaymentMethod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return r.queryOne(ctx, `SELECT `+paymentMethodColumns+` FROM payment_methods WHERE is_default = 1`)
}

// Create stores a new payment method and returns it.
func (r *PaymentMethodRepository) Create(ctx context.Context, input model.PaymentMethodInput) (*model.PaymentMethod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	method := &model.PaymentMethod{
		ID:        r.s.newID(),
		Name:      input.Name,
		Icon:      input.Icon,
		IsDefault: input.IsDefault,
	}

	err := r.s.withTx(ctx, func(q queryable) error {
		if method.IsDefault {
			if err := clearDefaultPaymentMethod(ctx, q); err != nil {
				return err
			}
		}
		return insertPaymentMethod(ctx, q, method)
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("created payment method", "id", method.ID, "name", method.Name)
	return method, nil
}

// Update changes the fields present in patch. An empty patch does nothing.
func (r *PaymentMethodRepository) Update(ctx context.Context, id string, patch model.PaymentMethodPatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var set columnSet
	setIfPresent(&set, "name", patch.Name)
	setIfPresent(&set, "icon", patch.Icon)
	setIfPresent(&set, "is_default", patch.IsDefault)
	if set.empty() {
		return nil
	}

	makeDefault := patch.IsDefault != nil && *patch.IsDefault
	err := r.s.withTx(ctx, func(q queryable) error {
		if makeDefault {
			if _, err := q.ExecContext(ctx, `UPDATE payment_methods SET is_default = 0 WHERE is_default = 1 AND id != ?`, id); err != nil {
				return fmt.Errorf("failed to clear default payment method: %w", err)
			}
		}
		return updateRow(ctx, q, "payment_methods", id, set)
	})
	if err != nil {
		return fmt.Errorf("failed to update payment method: %w", err)
	}
	return nil
}

// Delete removes a payment method. Transactions that reference it are left as they are.
func (r *PaymentMethodRepository) Delete(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if err := deleteRow(ctx, r.s.q, "payment_methods", id); err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	return nil
}

func (r *PaymentMethodRepository) queryOne(ctx context.Context, query string, args ...any) (*model.PaymentMethod, error) {
	method, err := scanPaymentMethod(r.s.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func clearDefaultPaymentMethod(ctx context.Context, q queryable) error {
	if _, err := q.ExecContext(ctx, `UPDATE payment_methods SET is_default = 0 WHERE is_default = 1`); err != nil {
		return fmt.Errorf("failed to clear default payment method: %w", err)
	}
	return nil
}

func insertPaymentMethod(ctx context.Context, q queryable, m *model.PaymentMethod) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO payment_methods (id, name, icon, is_default)
		VALUES (?, ?, ?, ?)`,
		m.ID, m.Name, m.Icon, m.IsDefault)
	if err != nil {
		return fmt.Errorf("failed to create payment method %q: %w", m.Name, classifyError(err))
	}
	return nil
}

func scanPaymentMethod(row scanner) (model.PaymentMethod, error) {
	var method model.PaymentMethod
	if err := row.Scan(&method.ID, &method.Name, &method.Icon, &method.IsDefault); err != nil {
		return model.PaymentMethod{}, fmt.Errorf("failed to scan payment method: %w", err)
	}
	return method, nil
}
