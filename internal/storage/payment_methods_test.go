package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
)

func TestPaymentMethodRepository_CRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	repo := store.PaymentMethods()

	created, err := repo.Create(ctx, model.PaymentMethodInput{Name: "Gift Card", Icon: "🎟️"})
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, *created, *fetched)

	require.NoError(t, repo.Update(ctx, created.ID, model.PaymentMethodPatch{Icon: ptr("🎫")}))
	fetched, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gift Card", fetched.Name)
	assert.Equal(t, "🎫", fetched.Icon)

	require.NoError(t, repo.Delete(ctx, created.ID))
	fetched, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), common.ErrNotFound)
}

func TestPaymentMethodRepository_SingleDefault(t *testing.T) {
	store, cleanup := createSeededStorage(t)
	defer cleanup()
	ctx := context.Background()
	repo := store.PaymentMethods()

	def, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "Cash", def.Name)

	t.Run("creating a default replaces the previous one", func(t *testing.T) {
		created, err := repo.Create(ctx, model.PaymentMethodInput{Name: "Crypto", Icon: "🪙", IsDefault: true})
		require.NoError(t, err)

		def, err := repo.GetDefault(ctx)
		require.NoError(t, err)
		assert.Equal(t, created.ID, def.ID)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, created.ID, all[0].ID, "default sorts first")
		defaults := 0
		for _, m := range all {
			if m.IsDefault {
				defaults++
			}
		}
		assert.Equal(t, 1, defaults)
	})

	t.Run("updating a method to default replaces the previous one", func(t *testing.T) {
		upi, err := repo.GetByName(ctx, "UPI")
		require.NoError(t, err)
		require.NotNil(t, upi)

		require.NoError(t, repo.Update(ctx, upi.ID, model.PaymentMethodPatch{IsDefault: ptr(true)}))

		def, err := repo.GetDefault(ctx)
		require.NoError(t, err)
		assert.Equal(t, upi.ID, def.ID)
	})

	t.Run("failed update keeps the current default", func(t *testing.T) {
		before, err := repo.GetDefault(ctx)
		require.NoError(t, err)

		err = repo.Update(ctx, "missing", model.PaymentMethodPatch{IsDefault: ptr(true)})
		require.ErrorIs(t, err, common.ErrNotFound)

		after, err := repo.GetDefault(ctx)
		require.NoError(t, err)
		require.NotNil(t, after)
		assert.Equal(t, before.ID, after.ID)
	})
}

func TestPaymentMethodRepository_EmptyPatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	assert.NoError(t, store.PaymentMethods().Update(context.Background(), "anything", model.PaymentMethodPatch{}))
}
