package ws

import "sync"

type room struct {
	mu      sync.RWMutex
	members map[*Session]struct{}
}

func newRoom() *room { return &room{members: map[*Session]struct{}{}} }

func (r *room) add(s *Session) {
	r.mu.Lock()
	r.members[s] = struct{}{}
	r.mu.Unlock()
}

// remove reports whether the session was still a member, so callers
// can do last-member bookkeeping exactly once.
func (r *room) remove(s *Session) bool {
	r.mu.Lock()
	_, ok := r.members[s]
	delete(r.members, s)
	r.mu.Unlock()
	return ok
}

func (r *room) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// snapshot copies the member set so the I/O happens outside the lock.
func (r *room) snapshot() []*Session {
	r.mu.RLock()
	members := make([]*Session, 0, len(r.members))
	for s := range r.members {
		members = append(members, s)
	}
	r.mu.RUnlock()
	return members
}
