package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/sprout/internal/model"
)

// UserProfileRepository persists the single user profile row.
type UserProfileRepository struct {
	s *SQLiteStorage
}

// Get returns the profile, or nil before one has been created.
func (r *UserProfileRepository) Get(ctx context.Context) (*model.UserProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		profile   model.UserProfile
		currency  string
		createdAt string
	)
	err := r.s.q.QueryRowContext(ctx, `
		SELECT id, name, email, currency, created_at
		FROM user_profile
		WHERE id = ?`, model.UserProfileID).Scan(
		&profile.ID, &profile.Name, &profile.Email, &currency, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user profile: %w", err)
	}

	profile.Currency = model.CurrencyCode(currency)
	if profile.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse profile created_at: %w", err)
	}
	return &profile, nil
}

// Exists reports whether the profile has been created.
func (r *UserProfileRepository) Exists(ctx context.Context) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	var count int
	if err := r.s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_profile`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check user profile: %w", err)
	}
	return count > 0, nil
}

// Create stores the profile. A second call fails with common.ErrDuplicateEntry.
func (r *UserProfileRepository) Create(ctx context.Context, input model.UserProfileInput) (*model.UserProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	profile := &model.UserProfile{
		ID:        model.UserProfileID,
		Name:      input.Name,
		Email:     input.Email,
		Currency:  input.Currency,
		CreatedAt: r.s.timestamp(),
	}

	if err := insertProfile(ctx, r.s.q, profile); err != nil {
		return nil, err
	}

	slog.Info("created user profile", "name", profile.Name, "currency", profile.Currency)
	return profile, nil
}

// Update changes the fields present in patch. An empty patch does nothing.
func (r *UserProfileRepository) Update(ctx context.Context, patch model.UserProfilePatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var set columnSet
	setIfPresent(&set, "name", patch.Name)
	setIfPresent(&set, "email", patch.Email)
	if patch.Currency != nil {
		set.add("currency", string(*patch.Currency))
	}
	if set.empty() {
		return nil
	}

	if err := updateRow(ctx, r.s.q, "user_profile", model.UserProfileID, set); err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}

func insertProfile(ctx context.Context, q queryable, p *model.UserProfile) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO user_profile (id, name, email, currency, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, string(p.Currency), formatTimestamp(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create user profile: %w", classifyError(err))
	}
	return nil
}
