package ws

import "sync"

type sessionState int

const (
	statePending sessionState = iota // accepted, handshake outstanding
	stateBound                       // attached to a room, relaying
	stateClosed                      // terminal
)

// Session is the server-side state for one client connection. It is a
// member of at most one room, joined by the handshake and left on
// teardown; roomID and isLeader never change after binding.
type Session struct {
	conn *clientConn

	mu       sync.Mutex
	state    sessionState
	roomID   string
	isLeader bool
}

func newSession(conn *clientConn) *Session {
	return &Session{conn: conn}
}

// bind moves Pending -> Bound. Returns false if the session already
// left Pending (e.g. torn down while the handshake was in flight).
func (s *Session) bind(roomID string, leader bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != statePending {
		return false
	}
	s.state = stateBound
	s.roomID = roomID
	s.isLeader = leader
	return true
}

// shutdown moves any state -> Closed. Idempotent: only the first call
// reports the room the session was bound to, so membership removal
// happens exactly once no matter how many teardown paths fire.
func (s *Session) shutdown() (roomID string, wasBound bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateClosed {
		return "", false
	}
	wasBound = s.state == stateBound
	s.state = stateClosed
	return s.roomID, wasBound
}

func (s *Session) RoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

func (s *Session) IsLeader() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLeader
}

func (s *Session) Bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateBound
}
