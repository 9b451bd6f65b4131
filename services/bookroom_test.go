package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BookRoomStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewBookRoomStore(client)
}

func testDraft() *BookingDraft {
	return &BookingDraft{
		RoomID:            7,
		TotalPrice:        420,
		BreakfastIncluded: true,
		StartDate:         time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestBookRoomStoreEmptyState(t *testing.T) {
	store := newTestStore(t)

	state, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, state.Draft)
	assert.Empty(t, state.PaymentIntentID)
	assert.Empty(t, state.ClientSecret)
}

func TestBookRoomStoreDraftSurvivesIntentUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetDraft(ctx, 1, testDraft()))
	require.NoError(t, store.SetPaymentIntentID(ctx, 1, "pi_123"))
	require.NoError(t, store.SetClientSecret(ctx, 1, "pi_123_secret"))

	state, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, state.Draft)
	assert.Equal(t, uint(7), state.Draft.RoomID)
	assert.Equal(t, float32(420), state.Draft.TotalPrice)
	assert.True(t, state.Draft.BreakfastIncluded)
	assert.Equal(t, "pi_123", state.PaymentIntentID)
	assert.Equal(t, "pi_123_secret", state.ClientSecret)
}

func TestBookRoomStoreIsPerUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetDraft(ctx, 1, testDraft()))

	state, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, state.Draft, "another user must not see the staged draft")
}

func TestBookRoomStoreReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetDraft(ctx, 1, testDraft()))
	require.NoError(t, store.SetPaymentIntentID(ctx, 1, "pi_123"))
	require.NoError(t, store.Reset(ctx, 1))

	state, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, state.Draft)
	assert.Empty(t, state.PaymentIntentID)
	assert.Empty(t, state.ClientSecret)

	// Resetting an already-empty state is fine.
	require.NoError(t, store.Reset(ctx, 1))
}
