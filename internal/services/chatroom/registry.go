package chatroom

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Room is the public chatroom record returned by the control API and
// presented by clients when they join.
type Room struct {
	ID    string `json:"id"`
	Title string `json:"title"`
} // @name Chatroom

var ErrRoomNotFound = errors.New("chatroom not found")

type IRoomRegistry interface {
	// Create registers a new room under a fresh unique id.
	Create(title string) *Room
	// Exists reports whether an id is registered.
	Exists(id string) bool
	// Get returns the room or ErrRoomNotFound. No side effects on a miss.
	Get(id string) (*Room, error)
	// RunReaper periodically removes rooms that report idle for two
	// consecutive sweeps. A non-positive interval disables it.
	RunReaper(ctx context.Context, interval time.Duration, idle func(id string) bool)
}

type roomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() IRoomRegistry {
	return &roomRegistry{rooms: make(map[string]*Room)}
}

func (r *roomRegistry) Create(title string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := newID()
	for _, taken := r.rooms[id]; taken; _, taken = r.rooms[id] {
		id = newID()
	}

	room := &Room{ID: id, Title: title}
	r.rooms[id] = room
	zap.L().Info("chatroom created", zap.String("id", id), zap.String("title", title))
	return room
}

func (r *roomRegistry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[id]
	return ok
}

func (r *roomRegistry) Get(id string) (*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// RunReaper sweeps on a ticker; a room is dropped only after idle()
// held for two consecutive sweeps, so a room never disappears between
// creation and the first join within one interval.
func (r *roomRegistry) RunReaper(ctx context.Context, interval time.Duration, idle func(id string) bool) {
	if interval <= 0 {
		return
	}
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		pending := map[string]struct{}{}
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				pending = r.sweep(pending, idle)
			}
		}
	}()
}

func (r *roomRegistry) sweep(pending map[string]struct{}, idle func(id string) bool) map[string]struct{} {
	next := map[string]struct{}{}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.rooms {
		if !idle(id) {
			continue
		}
		if _, seen := pending[id]; seen {
			delete(r.rooms, id)
			zap.L().Info("chatroom reaped", zap.String("id", id))
			continue
		}
		next[id] = struct{}{}
	}
	return next
}

func newID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
