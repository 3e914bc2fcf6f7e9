package ws

import (
	"go.uber.org/zap"
)

// Drainer implements the graceful shutdown notice: every bound session
// gets exactly one update kick telling it the server is restarting.
// Fire-and-forget, no acks; the caller stops accepting new work and
// exits afterwards.
type Drainer struct {
	hub *Hub
}

func NewDrainer(hub *Hub) *Drainer { return &Drainer{hub: hub} }

// Drain returns the number of sessions that received the notice.
func (d *Drainer) Drain() int {
	n := d.hub.NotifyAll(kickNotice(kickUpdate))
	zap.L().Info("drain notice sent", zap.Int("sessions", n))
	return n
}
