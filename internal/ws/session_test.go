package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Bind(t *testing.T) {
	s := newSession(&clientConn{})

	require.True(t, s.bind("room1", true))
	assert.True(t, s.Bound())
	assert.Equal(t, "room1", s.RoomID())
	assert.True(t, s.IsLeader())

	// binding twice is a protocol bug, the state machine refuses it
	assert.False(t, s.bind("room2", false))
	assert.Equal(t, "room1", s.RoomID())
}

func TestSession_BindAfterShutdown(t *testing.T) {
	s := newSession(&clientConn{})
	s.shutdown()

	assert.False(t, s.bind("room1", false))
	assert.False(t, s.Bound())
}

func TestSession_ShutdownIdempotent(t *testing.T) {
	s := newSession(&clientConn{})
	require.True(t, s.bind("room1", false))

	roomID, wasBound := s.shutdown()
	assert.True(t, wasBound)
	assert.Equal(t, "room1", roomID)

	// concurrent teardown paths may all call shutdown; only the first
	// reports the membership to remove
	_, wasBound = s.shutdown()
	assert.False(t, wasBound)
}

func TestSession_ShutdownWhilePending(t *testing.T) {
	s := newSession(&clientConn{})

	_, wasBound := s.shutdown()
	assert.False(t, wasBound)
	assert.False(t, s.Bound())
}
