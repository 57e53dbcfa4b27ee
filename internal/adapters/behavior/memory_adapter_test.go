package behavior

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/luminacart/discovery/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(userID, productID string) *entities.BehaviorEvent {
	return &entities.BehaviorEvent{
		ID:        productID,
		UserID:    userID,
		Action:    entities.ActionView,
		ProductID: productID,
		Weight:    1,
		Timestamp: time.Now(),
	}
}

func TestAppend_AndListByUser(t *testing.T) {
	store := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, event("u1", "p1")))
	require.NoError(t, store.Append(ctx, event("u1", "p2")))

	events, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "p1", events[0].ProductID)
	assert.Equal(t, "p2", events[1].ProductID)
}

func TestListByUser_UnknownUser(t *testing.T) {
	store := NewMemoryAdapter()

	events, err := store.ListByUser(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAppend_NilEvent(t *testing.T) {
	store := NewMemoryAdapter()
	assert.Error(t, store.Append(context.Background(), nil))
}

func TestAppend_EmptyUserStoredAsAnonymous(t *testing.T) {
	store := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, event("", "p1")))

	events, err := store.ListByUser(ctx, entities.AnonymousUserID)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestAppend_EvictsOldestPastCap(t *testing.T) {
	store := NewMemoryAdapter()
	ctx := context.Background()

	for i := 1; i <= MaxEventsPerUser+1; i++ {
		require.NoError(t, store.Append(ctx, event("u1", fmt.Sprintf("p%d", i))))
	}

	events, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, MaxEventsPerUser)
	// The first event was evicted; order stays oldest first.
	assert.Equal(t, "p2", events[0].ProductID)
	assert.Equal(t, fmt.Sprintf("p%d", MaxEventsPerUser+1), events[len(events)-1].ProductID)
}

func TestListAll_SnapshotsEveryUser(t *testing.T) {
	store := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, event("u1", "p1")))
	require.NoError(t, store.Append(ctx, event("u2", "p2")))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Len(t, all["u1"], 1)
	assert.Len(t, all["u2"], 1)
}
