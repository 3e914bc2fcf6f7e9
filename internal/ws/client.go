package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// clientConn serializes writes to one websocket connection. Relay
// fan-out and notices may race on the same peer, gorilla allows only
// one concurrent writer.
type clientConn struct {
	rawConn *websocket.Conn
	mu      sync.Mutex
}

func (c *clientConn) write(mt int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteMessage(mt, data)
}

func (c *clientConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteJSON(v)
}

// close attempts a clean websocket closure before dropping the socket,
// so a peer that just received a kick or error notice sees a normal
// close instead of an abnormal 1006.
func (c *clientConn) close() {
	c.mu.Lock()
	_ = c.rawConn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.mu.Unlock()
	_ = c.rawConn.Close()
}
