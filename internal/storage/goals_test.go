package storage

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
)

func TestGoalRepository_CRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	repo := store.Goals()

	created, err := repo.Create(ctx, model.GoalInput{Title: "Bike", TargetAmount: 800, Deadline: "2025-05-01", Icon: "🚲"})
	require.NoError(t, err)
	assert.Zero(t, created.CurrentAmount)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "Bike", fetched.Title)
	assert.Equal(t, "🚲", fetched.Icon)
	assert.Equal(t, "2025-05-01", fetched.Deadline)

	require.NoError(t, repo.Update(ctx, created.ID, model.GoalPatch{Title: ptr("Road bike"), TargetAmount: ptr(1200.0)}))
	fetched, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Road bike", fetched.Title)
	assert.Equal(t, 1200.0, fetched.TargetAmount)
	assert.Equal(t, "🚲", fetched.Icon)

	require.NoError(t, repo.Delete(ctx, created.ID))
	fetched, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched)
}

func TestGoalRepository_Constraints(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.Goals().Create(ctx, model.GoalInput{Title: "Nothing", TargetAmount: 0})
	assert.ErrorIs(t, err, common.ErrConstraintViolation)

	_, err = store.Goals().Create(ctx, model.GoalInput{Title: "Debt", TargetAmount: 10, CurrentAmount: -1})
	assert.ErrorIs(t, err, common.ErrConstraintViolation)
}

func TestGoalRepository_GetAllByDeadline(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, g := range []model.GoalInput{
		{Title: "Later", TargetAmount: 1, Deadline: "2026-01-01"},
		{Title: "Sooner", TargetAmount: 1, Deadline: "2025-01-01"},
		{Title: "Soonest", TargetAmount: 1, Deadline: "2024-06-30"},
	} {
		_, err := store.Goals().Create(ctx, g)
		require.NoError(t, err)
	}

	goals, err := store.Goals().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 3)
	assert.Equal(t, "Soonest", goals[0].Title)
	assert.Equal(t, "Sooner", goals[1].Title)
	assert.Equal(t, "Later", goals[2].Title)
}

func TestGoalRepository_AddFunds(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	repo := store.Goals()

	goal, err := repo.Create(ctx, model.GoalInput{Title: "Laptop", TargetAmount: 2000, CurrentAmount: 850})
	require.NoError(t, err)

	require.NoError(t, repo.AddFunds(ctx, goal.ID, 150))

	fetched, err := repo.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, fetched.CurrentAmount)
	assert.InDelta(t, 50.0, fetched.Progress(), 1e-9)
	assert.True(t, fetched.UpdatedAt.After(fetched.CreatedAt) || fetched.UpdatedAt.Equal(fetched.CreatedAt))

	assert.ErrorIs(t, repo.AddFunds(ctx, "missing", 10), common.ErrNotFound)
}

func TestGoalRepository_ConcurrentAddFunds(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	repo := store.Goals()

	goal, err := repo.Create(ctx, model.GoalInput{Title: "Vacation", TargetAmount: 5000})
	require.NoError(t, err)

	var g errgroup.Group
	for range 2 {
		g.Go(func() error {
			return repo.AddFunds(ctx, goal.ID, 100)
		})
	}
	require.NoError(t, g.Wait())

	fetched, err := repo.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, fetched.CurrentAmount)
}

func TestGoalRepository_UpdateBothAmounts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	repo := store.Goals()

	goal, err := repo.Create(ctx, model.GoalInput{Title: "Car", TargetAmount: 9000, CurrentAmount: 100})
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, goal.ID, model.GoalPatch{TargetAmount: ptr(12000.0), CurrentAmount: ptr(2500.0)}))
	fetched, err := repo.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, 12000.0, fetched.TargetAmount)
	assert.Equal(t, 2500.0, fetched.CurrentAmount)

	err = repo.Update(ctx, goal.ID, model.GoalPatch{TargetAmount: ptr(15000.0), CurrentAmount: ptr(math.NaN())})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	fetched, err = repo.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 12000.0, fetched.TargetAmount, "a rejected patch must not write any column")
}
