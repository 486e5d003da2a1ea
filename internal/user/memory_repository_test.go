package user

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryStore() Store {
	return NewMemoryStore(&seqIDs{}, fixedClock{t: testNow})
}

func TestMemoryStore_CreateOrGetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()

	first, err := store.CreateOrGet(ctx, NewUser{ClerkID: "u1", Email: "a@x.com", Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, testNow, first.CreatedAt)

	second, err := store.CreateOrGet(ctx, NewUser{ClerkID: "u1", Email: "other@x.com", Username: "mallory"})
	require.NoError(t, err)
	assert.Equal(t, first, second, "existing record must be returned untouched")
}

func TestMemoryStore_CreateOrGetRequiresClerkID(t *testing.T) {
	_, err := newTestMemoryStore().CreateOrGet(context.Background(), NewUser{})
	assert.ErrorIs(t, err, ErrMissingClerkID)
}

func TestMemoryStore_ConcurrentCreateYieldsSingleRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()

	const workers = 32
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := store.CreateOrGet(ctx, NewUser{ClerkID: "race"})
			if err == nil {
				ids[i] = u.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestMemoryStore_UpdateAppliesPartialFields(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()
	_, err := store.CreateOrGet(ctx, NewUser{ClerkID: "u1", Email: "a@x.com", Username: "alice", FirstName: "Al"})
	require.NoError(t, err)

	got, err := store.Update(ctx, "u1", Update{FirstName: strPtr("Alice"), Photo: strPtr("https://img/a.png")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FirstName)
	assert.Equal(t, "https://img/a.png", got.Photo)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "a@x.com", got.Email)

	stored, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestMemoryStore_MissesReturnNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()

	_, err := store.Update(ctx, "ghost", Update{Username: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Delete(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteReturnsRemovedRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()
	created, err := store.CreateOrGet(ctx, NewUser{ClerkID: "u1", Username: "alice"})
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created, deleted)

	_, err = store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}
