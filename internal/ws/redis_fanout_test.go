package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_PublishWrapsFrame(t *testing.T) {
	db, mock := redismock.NewClientMock()
	bridge := NewRedisBridge(context.Background(), db, NewHub())

	msg := []byte(`{"cmd":"play"}`)
	payload, err := json.Marshal(bridgeFrame{Origin: bridge.origin, Data: msg})
	require.NoError(t, err)

	mock.ExpectPublish(channelFor("room1"), payload).SetVal(1)
	bridge.Publish("room1", msg)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBridge_AcceptDropsOwnFrames(t *testing.T) {
	db, _ := redismock.NewClientMock()
	bridge := NewRedisBridge(context.Background(), db, NewHub())

	own, err := json.Marshal(bridgeFrame{Origin: bridge.origin, Data: []byte(`{"cmd":"play"}`)})
	require.NoError(t, err)
	_, ok := bridge.accept(own)
	assert.False(t, ok, "own frames must not echo back into the room")

	foreign, err := json.Marshal(bridgeFrame{Origin: "other-instance", Data: []byte(`{"cmd":"pause"}`)})
	require.NoError(t, err)
	data, ok := bridge.accept(foreign)
	require.True(t, ok)
	assert.JSONEq(t, `{"cmd":"pause"}`, string(data))
}

func TestBridge_AcceptRejectsGarbage(t *testing.T) {
	db, _ := redismock.NewClientMock()
	bridge := NewRedisBridge(context.Background(), db, NewHub())

	_, ok := bridge.accept([]byte("not json"))
	assert.False(t, ok)
}

func TestBridge_SubscribeRefCounts(t *testing.T) {
	db, _ := redismock.NewClientMock()
	bridge := NewRedisBridge(context.Background(), db, NewHub())

	bridge.Subscribe("room1")
	bridge.Subscribe("room1")
	bridge.mu.Lock()
	require.Contains(t, bridge.subs, "room1")
	assert.Equal(t, 2, bridge.subs["room1"].refCnt)
	bridge.mu.Unlock()

	bridge.Unsubscribe("room1")
	bridge.mu.Lock()
	assert.Contains(t, bridge.subs, "room1")
	bridge.mu.Unlock()

	bridge.Unsubscribe("room1")
	bridge.mu.Lock()
	assert.NotContains(t, bridge.subs, "room1")
	bridge.mu.Unlock()

	// unsubscribing a room we never joined is a no-op
	bridge.Unsubscribe("ghost")
}
