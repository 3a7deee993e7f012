package broadcast

// Message types exchanged on the push channel.
const (
	TypeAuth           = "auth"
	TypePing           = "ping"
	TypePong           = "pong"
	TypeContentUpdated = "content-updated"
)

// Event is the outbound change notification.
type Event struct {
	Type            string `json:"type"`
	Timestamp       int64  `json:"timestamp"`
	SenderSessionID string `json:"senderSessionId,omitempty"`
}

// inbound is any message a viewer sends to the server.
type inbound struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
}
