package ws

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBridge mirrors room traffic across instances through Redis
// pub/sub, so members of the same room on different processes see each
// other's frames. Exactly one subscription exists per room channel no
// matter how many local sessions joined it.
type RedisBridge struct {
	ctx    context.Context
	rdb    *redis.Client
	hub    *Hub
	origin string // this instance, used to drop our own frames

	mu   sync.Mutex
	subs map[string]*subEntry // roomID ➜ subscription data
}

type subEntry struct {
	refCnt int
	cancel context.CancelFunc
}

// bridgeFrame wraps a relayed frame on the wire between instances.
type bridgeFrame struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

func NewRedisBridge(ctx context.Context, rdb *redis.Client, hub *Hub) *RedisBridge {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return &RedisBridge{
		ctx:    ctx,
		rdb:    rdb,
		hub:    hub,
		origin: hex.EncodeToString(buf),
		subs:   make(map[string]*subEntry),
	}
}

func channelFor(roomID string) string { return "room:" + roomID + ":events" }

// Publish mirrors a locally relayed frame to the room's channel.
func (b *RedisBridge) Publish(roomID string, msg []byte) {
	payload, err := json.Marshal(bridgeFrame{Origin: b.origin, Data: msg})
	if err != nil {
		return
	}
	if err := b.rdb.Publish(b.ctx, channelFor(roomID), payload).Err(); err != nil {
		zap.L().Warn("bridge.publish", zap.Error(err))
	}
}

// Subscribe ensures the process is subscribed to the room's channel;
// subsequent calls for the same room only increment the ref-counter.
func (b *RedisBridge) Subscribe(roomID string) {
	b.mu.Lock()
	if e, ok := b.subs[roomID]; ok {
		e.refCnt++
		b.mu.Unlock()
		return
	}

	// First member ➜ create the Redis SUB and fan-out loop.
	ctx, cancel := context.WithCancel(b.ctx)
	ps := b.rdb.Subscribe(ctx, channelFor(roomID))

	b.subs[roomID] = &subEntry{refCnt: 1, cancel: cancel}
	b.mu.Unlock()

	go func() {
		defer ps.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ps.Channel():
				if !ok { // Redis connection closed.
					return
				}
				if data, ok := b.accept([]byte(m.Payload)); ok {
					b.hub.Broadcast(roomID, data)
				}
			}
		}
	}()
}

// Unsubscribe decrements the ref-counter and tears the Redis SUB down
// when the last local member leaves the room.
func (b *RedisBridge) Unsubscribe(roomID string) {
	b.mu.Lock()
	e, ok := b.subs[roomID]
	if !ok {
		b.mu.Unlock()
		return
	}
	e.refCnt--
	if e.refCnt > 0 {
		b.mu.Unlock()
		return
	}
	delete(b.subs, roomID)
	b.mu.Unlock()

	// Outside the lock ➜ stop the fan-out goroutine.
	e.cancel()
}

// accept unwraps a channel payload and drops frames this instance
// published itself, otherwise every frame would echo back to its room.
func (b *RedisBridge) accept(payload []byte) ([]byte, bool) {
	var frame bridgeFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		zap.L().Warn("bridge.bad_frame", zap.Error(err))
		return nil, false
	}
	if frame.Origin == b.origin {
		return nil, false
	}
	return frame.Data, true
}
