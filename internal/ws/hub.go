package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub keeps the member set per room id and owns the fan-out paths.
// Only bound sessions are ever in a member set: Join happens after the
// handshake binds and Teardown removes synchronously with close.
type Hub struct {
	rooms  map[string]*room
	mu     sync.RWMutex
	bridge *RedisBridge // optional cross-instance mirror, set before serving
}

func NewHub() *Hub { return &Hub{rooms: make(map[string]*room)} }

// AttachBridge wires the optional Redis mirror. Must be called before
// the first connection is accepted.
func (h *Hub) AttachBridge(b *RedisBridge) { h.bridge = b }

// Join and leave mutate membership while holding the hub lock, so an
// entry is only dropped when no joiner can still be holding it.
func (h *Hub) Join(roomID string, s *Session) {
	h.mu.Lock()
	r, ok := h.rooms[roomID]
	if !ok {
		r = newRoom()
		h.rooms[roomID] = r
	}
	r.add(s)
	h.mu.Unlock()

	if h.bridge != nil {
		h.bridge.Subscribe(roomID)
	}
}

func (h *Hub) leave(roomID string, s *Session) {
	h.mu.Lock()
	r, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	removed := r.remove(s)
	if removed && r.size() == 0 {
		// last member out: drop the entry, or reaped rooms would pin
		// an empty member set for the process lifetime
		delete(h.rooms, roomID)
	}
	h.mu.Unlock()

	if removed && h.bridge != nil {
		h.bridge.Unsubscribe(roomID)
	}
}

// Teardown closes the session and, if it was bound, removes it from
// its room. Safe to call from any path any number of times; remote
// close, a failed relay write and the drain path may all race here.
func (h *Hub) Teardown(s *Session) {
	roomID, wasBound := s.shutdown()
	if wasBound {
		h.leave(roomID, s)
	}
	s.conn.close()
}

// Relay delivers one frame from a bound session to every other member
// of its room. Delivery is best-effort per peer: a failed write tears
// that peer down and the rest still receive the frame.
func (h *Hub) Relay(from *Session, msg []byte) {
	roomID := from.RoomID()
	h.mu.RLock()
	r, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	for _, peer := range r.snapshot() {
		if peer == from {
			continue
		}
		if err := peer.conn.write(websocket.TextMessage, msg); err != nil {
			h.Teardown(peer)
		}
	}

	if h.bridge != nil {
		h.bridge.Publish(roomID, msg)
	}
}

// Broadcast delivers a frame to every member of a room. Used for
// frames arriving over the bridge, which have no local sender.
func (h *Hub) Broadcast(roomID string, msg []byte) {
	h.mu.RLock()
	r, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	for _, peer := range r.snapshot() {
		if err := peer.conn.write(websocket.TextMessage, msg); err != nil {
			h.Teardown(peer)
		}
	}
}

// NotifyAll sends one frame to every bound session across all rooms
// and reports how many deliveries succeeded. A session is in at most
// one room, so no session is notified twice.
func (h *Hub) NotifyAll(v any) int {
	msg, err := json.Marshal(v)
	if err != nil {
		return 0
	}

	h.mu.RLock()
	rooms := make([]*room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	n := 0
	for _, r := range rooms {
		for _, peer := range r.snapshot() {
			if peer.conn.write(websocket.TextMessage, msg) == nil {
				n++
			}
		}
	}
	return n
}

// RoomSize reports how many sessions are currently bound to a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	r, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if !ok {
		return 0
	}
	return r.size()
}

// RoomEmpty is the idle check fed to the registry reaper.
func (h *Hub) RoomEmpty(roomID string) bool {
	return h.RoomSize(roomID) == 0
}
