package service

import (
	"context"
	"testing"

	"github.com/Dbeiser/Barter/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItem_RoundTripImageKeys(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStore()
	svc := NewItemService(store)

	owner := seedUser(t, store, "ana@barter.dev")

	item, err := svc.CreateItem(ctx, owner.ID, CreateItemRequest{
		Name:      "bicicleta",
		Category:  "Sports",
		ImageKeys: []string{"a", "b"},
	})
	require.NoError(t, err)

	// As chaves voltam na mesma ordem em que entraram
	fetched, err := svc.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, fetched.ImageKeys)
	assert.Equal(t, owner.ID, fetched.OwnerID)
}

func TestCreateItem_InvalidCategory(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStore()
	svc := NewItemService(store)

	owner := seedUser(t, store, "ana@barter.dev")

	_, err := svc.CreateItem(ctx, owner.ID, CreateItemRequest{
		Name:     "bicicleta",
		Category: "Veículos",
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestUpdateItem_ReplacesImageKeysWholesale(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStore()
	svc := NewItemService(store)

	owner := seedUser(t, store, "ana@barter.dev")

	item, err := svc.CreateItem(ctx, owner.ID, CreateItemRequest{
		Name:      "bicicleta",
		Category:  "Sports",
		ImageKeys: []string{"a", "b"},
	})
	require.NoError(t, err)

	// As chaves antigas são descartadas, não mescladas
	updated, err := svc.UpdateItem(ctx, owner.ID, item.ID, CreateItemRequest{
		Name:      "bicicleta aro 29",
		Category:  "Sports",
		ImageKeys: []string{"c"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, updated.ImageKeys)
	assert.Equal(t, "bicicleta aro 29", updated.Name)
}

func TestUpdateItem_NotOwner(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStore()
	svc := NewItemService(store)

	owner := seedUser(t, store, "ana@barter.dev")
	other := seedUser(t, store, "bruno@barter.dev")

	item, err := svc.CreateItem(ctx, owner.ID, CreateItemRequest{
		Name:     "bicicleta",
		Category: "Sports",
	})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, other.ID, item.ID, CreateItemRequest{
		Name:     "minha agora",
		Category: "Sports",
	})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStore()
	svc := NewItemService(store)

	owner := seedUser(t, store, "ana@barter.dev")
	other := seedUser(t, store, "bruno@barter.dev")

	item, err := svc.CreateItem(ctx, owner.ID, CreateItemRequest{
		Name:     "bicicleta",
		Category: "Sports",
	})
	require.NoError(t, err)

	// Outro usuário não pode apagar
	err = svc.DeleteItem(ctx, other.ID, item.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.DeleteItem(ctx, owner.ID, item.ID))

	_, err = svc.GetItemByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetItemsByOwner(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStore()
	svc := NewItemService(store)

	ana := seedUser(t, store, "ana@barter.dev")
	bruno := seedUser(t, store, "bruno@barter.dev")
	seedItem(t, store, ana, "bicicleta")
	seedItem(t, store, ana, "violão")
	seedItem(t, store, bruno, "panela")

	items, err := svc.GetItemsByOwner(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	all, err := svc.GetAllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
