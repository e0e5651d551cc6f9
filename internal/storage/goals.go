package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/sprout/internal/model"
)

const goalColumns = `id, title, target_amount, current_amount, deadline, icon, created_at, updated_at`

// GoalRepository persists savings goals.
type GoalRepository struct {
	s *SQLiteStorage
}

// Create stores a new goal and returns it.
func (r *GoalRepository) Create(ctx context.Context, input model.GoalInput) (*model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateAmount(input.TargetAmount); err != nil {
		return nil, err
	}
	if err := validateAmount(input.CurrentAmount); err != nil {
		return nil, err
	}

	now := r.s.timestamp()
	goal := &model.Goal{
		ID:            r.s.newID(),
		Title:         input.Title,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Deadline:      input.Deadline,
		Icon:          input.Icon,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := insertGoal(ctx, r.s.q, goal); err != nil {
		return nil, err
	}

	slog.Debug("created goal", "id", goal.ID, "title", goal.Title)
	return goal, nil
}

// Update changes the fields present in patch and refreshes updated_at.
func (r *GoalRepository) Update(ctx context.Context, id string, patch model.GoalPatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var set columnSet
	setIfPresent(&set, "title", patch.Title)
	if patch.TargetAmount != nil {
		if err := validateAmount(*patch.TargetAmount); err != nil {
			return err
		}
		set.add("target_amount", *patch.TargetAmount)
	}
	if patch.CurrentAmount != nil {
		if err := validateAmount(*patch.CurrentAmount); err != nil {
			return err
		}
		set.add("current_amount", *patch.CurrentAmount)
	}
	setIfPresent(&set, "deadline", patch.Deadline)
	setIfPresent(&set, "icon", patch.Icon)
	set.add("updated_at", formatTimestamp(r.s.timestamp()))

	if err := updateRow(ctx, r.s.q, "goals", id, set); err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

// Delete removes a goal.
func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if err := deleteRow(ctx, r.s.q, "goals", id); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

// GetByID returns the goal with the given id, or nil if there is none.
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	goal, err := scanGoal(r.s.q.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// GetAll returns every goal, nearest deadline first.
func (r *GoalRepository) GetAll(ctx context.Context) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := r.s.q.QueryContext(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY deadline ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	slog.Debug("retrieved goals", "count", len(goals))
	return goals, nil
}

// AddFunds increases a goal's current amount in a single statement, so
// concurrent calls never lose an increment.
func (r *GoalRepository) AddFunds(ctx context.Context, id string, amount float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	result, err := r.s.q.ExecContext(ctx, `
		UPDATE goals
		SET current_amount = current_amount + ?, updated_at = ?
		WHERE id = ?`,
		amount, formatTimestamp(r.s.timestamp()), id)
	if err != nil {
		return fmt.Errorf("failed to add funds to goal: %w", classifyError(err))
	}
	if err := requireAffected(result, "goals", id); err != nil {
		return fmt.Errorf("failed to add funds to goal: %w", err)
	}

	slog.Debug("added funds to goal", "id", id, "amount", amount)
	return nil
}

func scanGoal(row scanner) (model.Goal, error) {
	var (
		g                    model.Goal
		createdAt, updatedAt string
	)
	err := row.Scan(&g.ID, &g.Title, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Icon, &createdAt, &updatedAt)
	if err != nil {
		return model.Goal{}, fmt.Errorf("failed to scan goal: %w", err)
	}
	if err := parseTimestamps(&g.CreatedAt, &g.UpdatedAt, createdAt, updatedAt); err != nil {
		return model.Goal{}, fmt.Errorf("goal %s: %w", g.ID, err)
	}
	return g, nil
}

func insertGoal(ctx context.Context, q queryable, g *model.Goal) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Icon,
		formatTimestamp(g.CreatedAt), formatTimestamp(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create goal %q: %w", g.Title, classifyError(err))
	}
	return nil
}
