package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
)

func TestBudgetRepository_UniquePerCategoryAndPeriod(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	repo := store.Budgets()

	_, err := repo.Create(ctx, model.BudgetInput{CategoryID: "food", Month: 1, Year: 2024, LimitAmount: 300})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   model.BudgetInput
		wantErr error
	}{
		{name: "same triple", input: model.BudgetInput{CategoryID: "food", Month: 1, Year: 2024, LimitAmount: 500}, wantErr: common.ErrDuplicateEntry},
		{name: "other category", input: model.BudgetInput{CategoryID: "fun", Month: 1, Year: 2024, LimitAmount: 100}},
		{name: "other month", input: model.BudgetInput{CategoryID: "food", Month: 2, Year: 2024, LimitAmount: 300}},
		{name: "other year", input: model.BudgetInput{CategoryID: "food", Month: 1, Year: 2025, LimitAmount: 300}},
		{name: "month out of range", input: model.BudgetInput{CategoryID: "food", Month: 13, Year: 2024, LimitAmount: 300}, wantErr: common.ErrConstraintViolation},
		{name: "zero limit", input: model.BudgetInput{CategoryID: "rent", Month: 1, Year: 2024, LimitAmount: 0}, wantErr: common.ErrConstraintViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("duplicate is also a constraint violation", func(t *testing.T) {
		_, err := repo.Create(ctx, model.BudgetInput{CategoryID: "food", Month: 1, Year: 2024, LimitAmount: 1})
		assert.ErrorIs(t, err, common.ErrConstraintViolation)
	})
}

func TestBudgetRepository_CRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	repo := store.Budgets()

	created, err := repo.Create(ctx, model.BudgetInput{CategoryID: "food", Month: 4, Year: 2024, LimitAmount: 300})
	require.NoError(t, err)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, created.LimitAmount, fetched.LimitAmount)
	assert.Equal(t, created.Period(), fetched.Period())

	require.NoError(t, repo.Update(ctx, created.ID, model.BudgetPatch{LimitAmount: ptr(450.0)}))
	fetched, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 450.0, fetched.LimitAmount)
	assert.Equal(t, "food", fetched.CategoryID)

	require.NoError(t, repo.Delete(ctx, created.ID))
	fetched, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), common.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, created.ID, model.BudgetPatch{}), common.ErrNotFound)
}

func TestBudgetRepository_UpdateIntoExistingPeriod(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	repo := store.Budgets()

	_, err := repo.Create(ctx, model.BudgetInput{CategoryID: "food", Month: 1, Year: 2024, LimitAmount: 300})
	require.NoError(t, err)
	february, err := repo.Create(ctx, model.BudgetInput{CategoryID: "food", Month: 2, Year: 2024, LimitAmount: 300})
	require.NoError(t, err)

	err = repo.Update(ctx, february.ID, model.BudgetPatch{Month: ptr(1)})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestBudgetRepository_GetByMonthYearWithSpent(t *testing.T) {
	store, cleanup := createSeededStorage(t)
	defer cleanup()
	ctx := context.Background()

	food, err := store.Categories().GetByName(ctx, "Food & Dining")
	require.NoError(t, err)
	shopping, err := store.Categories().GetByName(ctx, "Shopping")
	require.NoError(t, err)

	for _, input := range []model.BudgetInput{
		{CategoryID: food.ID, Month: 1, Year: 2024, LimitAmount: 300},
		{CategoryID: shopping.ID, Month: 1, Year: 2024, LimitAmount: 400},
		{CategoryID: food.ID, Month: 2, Year: 2024, LimitAmount: 999},
	} {
		_, err := store.Budgets().Create(ctx, input)
		require.NoError(t, err)
	}

	createTransactions(t, store,
		expenseInput(food.ID, "2024-01-02", 42.5),
		expenseInput(food.ID, "2024-01-20", 57.5),
		expenseInput(food.ID, "2024-02-01", 10),
		incomeInput(food.ID, "2024-01-05", 500),
	)

	budgets, err := store.Budgets().GetByMonthYear(ctx, 1, 2024)
	require.NoError(t, err)
	require.Len(t, budgets, 2)

	assert.Equal(t, shopping.ID, budgets[0].CategoryID, "largest limit first")
	assert.Equal(t, "Shopping", budgets[0].CategoryName)
	assert.Zero(t, budgets[0].Spent)

	assert.Equal(t, "Food & Dining", budgets[1].CategoryName)
	assert.Equal(t, food.Icon, budgets[1].CategoryIcon)
	assert.Equal(t, 100.0, budgets[1].Spent)
	assert.Equal(t, 200.0, budgets[1].Remaining())

	total, err := store.Budgets().GetTotalBudget(ctx, 1, 2024)
	require.NoError(t, err)
	assert.Equal(t, 700.0, total)

	total, err = store.Budgets().GetTotalBudget(ctx, 3, 2024)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = store.Budgets().GetByMonthYear(ctx, 0, 2024)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestBudgetRepository_GetAllOrdering(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, p := range []model.Period{{Month: 3, Year: 2023}, {Month: 1, Year: 2024}, {Month: 11, Year: 2023}} {
		_, err := store.Budgets().Create(ctx, model.BudgetInput{CategoryID: "food", Month: p.Month, Year: p.Year, LimitAmount: 10})
		require.NoError(t, err)
	}

	all, err := store.Budgets().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.Period{Month: 1, Year: 2024}, all[0].Period())
	assert.Equal(t, model.Period{Month: 11, Year: 2023}, all[1].Period())
	assert.Equal(t, model.Period{Month: 3, Year: 2023}, all[2].Period())
}
