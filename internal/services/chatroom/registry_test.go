package chatroom_test

import (
	"context"
	"testing"
	"time"

	"chatrelaygo/internal/services/chatroom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateUniqueIDs(t *testing.T) {
	registry := chatroom.NewRegistry()

	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		room := registry.Create("movie night")
		require.NotNil(t, room)
		require.NotEmpty(t, room.ID)
		assert.Equal(t, "movie night", room.Title)

		_, dup := seen[room.ID]
		require.False(t, dup, "duplicate id %q", room.ID)
		seen[room.ID] = struct{}{}

		assert.True(t, registry.Exists(room.ID))
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := chatroom.NewRegistry()
	room := registry.Create("listen along")

	got, err := registry.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, room, got)
}

func TestRegistry_GetNotFound(t *testing.T) {
	registry := chatroom.NewRegistry()

	_, err := registry.Get("deadbeef")
	require.ErrorIs(t, err, chatroom.ErrRoomNotFound)

	// a miss must not register anything as a side effect
	assert.False(t, registry.Exists("deadbeef"))
	_, err = registry.Get("deadbeef")
	require.ErrorIs(t, err, chatroom.ErrRoomNotFound)
}

func TestRegistry_ReaperRemovesIdleRooms(t *testing.T) {
	registry := chatroom.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	room := registry.Create("abandoned")
	registry.RunReaper(ctx, 20*time.Millisecond, func(string) bool { return true })

	// removal needs two consecutive idle sweeps
	assert.Eventually(t, func() bool { return !registry.Exists(room.ID) },
		2*time.Second, 10*time.Millisecond)
}

func TestRegistry_ReaperKeepsOccupiedRooms(t *testing.T) {
	registry := chatroom.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	room := registry.Create("busy")
	registry.RunReaper(ctx, 10*time.Millisecond, func(string) bool { return false })

	time.Sleep(100 * time.Millisecond)
	assert.True(t, registry.Exists(room.ID))
}

func TestRegistry_ReaperDisabled(t *testing.T) {
	registry := chatroom.NewRegistry()

	// zero interval must not start a sweep goroutine
	registry.RunReaper(context.Background(), 0, func(string) bool { return true })

	room := registry.Create("forever")
	time.Sleep(50 * time.Millisecond)
	assert.True(t, registry.Exists(room.ID))
}
