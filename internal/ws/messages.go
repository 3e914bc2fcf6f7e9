package ws

// Every protocol frame is a UTF-8 JSON text frame; binary frames are
// never valid anywhere in the protocol.

const (
	msgSetChatroom = "set_chatroom"

	kickProtocolError = "protocol_error"
	kickUpdate        = "update"

	errNotFound = "not_found"
)

// Envelope is the decoded client handshake. The protocol has exactly
// one client-originated command; a first frame with any other tag
// closes the connection without a reply.
type Envelope struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Control bool   `json:"control"`
}

// KickNotice tells the peer the server is dropping it.
type KickNotice struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ErrorNotice reports a handshake failure before the socket closes.
type ErrorNotice struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func kickNotice(reason string) KickNotice {
	return KickNotice{Type: "kick", Reason: reason}
}

func errorNotice(code string) ErrorNotice {
	return ErrorNotice{Type: "error", Error: code}
}
