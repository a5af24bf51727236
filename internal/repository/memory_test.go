package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Dbeiser/Barter/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	user := &models.User{ID: uuid.New(), Email: "ana@barter.dev", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))

	dup := &models.User{ID: uuid.New(), Email: "ana@barter.dev", CreatedAt: time.Now()}
	err := store.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestInMemoryStore_SetUserProvider(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	user := &models.User{ID: uuid.New(), Email: "ana@barter.dev", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))

	require.NoError(t, store.SetUserProvider(ctx, user.ID, "google"))
	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "google", stored.Provider)

	err = store.SetUserProvider(ctx, uuid.New(), "google")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStore_GetItemsByIDs(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	owner := uuid.New()
	a := &models.Item{ID: uuid.New(), OwnerID: owner, Name: "a", Category: "Other"}
	b := &models.Item{ID: uuid.New(), OwnerID: owner, Name: "b", Category: "Other"}
	require.NoError(t, store.CreateItem(ctx, a))
	require.NoError(t, store.CreateItem(ctx, b))

	// IDs desconhecidos simplesmente não aparecem no resultado
	items, err := store.GetItemsByIDs(ctx, []uuid.UUID{a.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)

	items, err = store.GetItemsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInMemoryStore_PendingFilter(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	receiver := uuid.New()
	mk := func(status models.TradeStatus, recv uuid.UUID) *models.Trade {
		trade := &models.Trade{
			ID:          uuid.New(),
			InitiatorID: uuid.New(),
			ReceiverID:  recv,
			Status:      status,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		require.NoError(t, store.CreateTrade(ctx, trade))
		return trade
	}

	requested := mk(models.StatusRequested, receiver)
	countered := mk(models.StatusCountered, receiver)
	mk(models.StatusAccepted, receiver)
	mk(models.StatusRejected, receiver)
	mk(models.StatusRequested, uuid.New()) // outro destinatário

	pending, err := store.GetPendingTradesByReceiver(ctx, receiver)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, requested.ID, pending[0].ID)
	assert.Equal(t, countered.ID, pending[1].ID)
}
