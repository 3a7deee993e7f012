package broadcast

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/captiveportal/portal-cms/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 16
)

var clientIDCounter atomic.Uint64

// Client is one viewer connection. Messages are queued on send and written by
// writePump; the hub never blocks on a slow viewer.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn

	mu      sync.Mutex
	session string
	send    chan []byte
	closed  bool
}

// NewClient creates a client bound to hub. conn may be nil for clients that
// are never started.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

func (c *Client) ID() uint64 { return c.id }

// Session returns the session token bound by the auth handshake, or "".
func (c *Client) Session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Bind associates the connection with a session token.
func (c *Client) Bind(session string) {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
}

// Messages exposes the outbound queue, for tests and in-process viewers.
func (c *Client) Messages() <-chan []byte { return c.send }

// enqueue reports false when the buffer is full or the client is closed.
func (c *Client) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// close shuts the outbound queue; writePump then sends a close frame.
func (c *Client) close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	close(c.send)
	return true
}

func (c *Client) handle(raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	switch msg.Type {
	case TypeAuth:
		c.Bind(msg.SessionID)
		logger.Infof("websocket client %d bound to session %s", c.id, logger.Truncate(msg.SessionID))
	case TypePing:
		pong, _ := json.Marshal(inbound{Type: TypePong})
		c.enqueue(pong)
	}
}

// readPump pumps messages from the websocket connection to the client
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Errorf("set read deadline: %v", err)
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warnf("unexpected websocket close: %v", err)
			}
			return
		}
		c.handle(raw)
	}
}

// writePump pumps messages from the queue to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debugf("websocket write: %v", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
