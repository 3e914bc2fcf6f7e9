package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"chatrelaygo/internal/config"
	"chatrelaygo/internal/services/chatroom"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait    = 10 * time.Second
	maxFrameSize = 32 << 10
)

type WsServer struct {
	cfg      *config.Config
	hub      *Hub
	registry chatroom.IRoomRegistry
	upgrader websocket.Upgrader
}

func NewWsServer(cfg *config.Config, hub *Hub, registry chatroom.IRoomRegistry) *WsServer {
	srv := &WsServer{
		cfg:      cfg,
		hub:      hub,
		registry: registry,
	}
	srv.upgrader = websocket.Upgrader{
		Subprotocols: []string{"lounge"},
		CheckOrigin: func(r *http.Request) bool {
			if cfg.Debug {
				return true
			}
			return r.Header.Get("Origin") == cfg.Origin
		},
	}
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry‑point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(maxFrameSize)
	zap.L().Info("connection accepted", zap.String("remote", rawConn.RemoteAddr().String()))

	sess := newSession(&clientConn{rawConn: rawConn})
	go s.run(sess)
}

// ---------------------------------------------------------------------------
//  Session lifecycle
// ---------------------------------------------------------------------------

// run owns the connection's single reader goroutine: one handshake
// frame while Pending, then the steady relay loop once Bound. FIFO
// ordering per sender falls out of this being the only reader.
func (s *WsServer) run(sess *Session) {
	defer s.hub.Teardown(sess)

	if !s.handshake(sess) {
		return
	}
	s.relayLoop(sess)
}

// handshake consumes exactly one frame and either binds the session to
// a room or reports why the connection must close. Frame handling per
// protocol: non-text or bad JSON gets a protocol_error kick, an
// unrecognized command is dropped without a reply, an unknown room id
// gets the not_found error notice.
func (s *WsServer) handshake(sess *Session) bool {
	raw := sess.conn.rawConn

	if t := s.cfg.HandshakeTimeout; t > 0 {
		_ = raw.SetReadDeadline(time.Now().Add(t))
	}
	mt, data, err := raw.ReadMessage()
	if err != nil {
		// Peer vanished or never spoke within the deadline.
		return false
	}
	_ = raw.SetReadDeadline(time.Time{})

	if mt != websocket.TextMessage {
		_ = sess.conn.writeJSON(kickNotice(kickProtocolError))
		return false
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		_ = sess.conn.writeJSON(kickNotice(kickProtocolError))
		return false
	}

	if env.Type != msgSetChatroom {
		return false
	}

	rm, err := s.registry.Get(env.ID)
	if err != nil {
		_ = sess.conn.writeJSON(errorNotice(errNotFound))
		return false
	}

	if !sess.bind(rm.ID, env.Control) {
		return false
	}
	s.hub.Join(rm.ID, sess)
	zap.L().Info("session bound",
		zap.String("room_id", rm.ID),
		zap.Bool("control", env.Control),
	)
	return true
}

// relayLoop hands every inbound text frame to the hub verbatim. The
// relay is payload-agnostic past the handshake envelope.
func (s *WsServer) relayLoop(sess *Session) {
	for {
		mt, data, err := sess.conn.rawConn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			_ = sess.conn.writeJSON(kickNotice(kickProtocolError))
			return
		}
		s.hub.Relay(sess, data)
	}
}
