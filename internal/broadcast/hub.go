package broadcast

import (
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/captiveportal/portal-cms/pkg/logger"
	"github.com/captiveportal/portal-cms/pkg/metrics"
)

// Hub is the registry of live viewer connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{}), now: time.Now}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Inc()
	logger.Infof("websocket client %d connected (total %d)", c.id, n)
}

// Unregister removes c and closes its queue. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if !ok {
		return
	}
	c.close()
	metrics.WSConnections.Dec()
	logger.Infof("websocket client %d disconnected (total %d)", c.id, n)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Notify queues a content-updated event for every client not bound to origin
// and returns how many were queued. Clients whose queue is full are dropped.
func (h *Hub) Notify(origin string) int {
	msg, err := json.Marshal(Event{Type: TypeContentUpdated, Timestamp: h.now().UnixMilli(), SenderSessionID: origin})
	if err != nil {
		logger.Errorf("encode broadcast: %v", err)
		return 0
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if origin != "" && c.Session() == origin {
			continue
		}
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if c.enqueue(msg) {
			sent++
			continue
		}
		logger.Warnf("websocket client %d not keeping up, dropping", c.id)
		h.Unregister(c)
	}
	metrics.BroadcastDeliveries.Add(float64(sent))
	logger.Infof("broadcast content update to %d client(s) (excluding sender)", sent)
	return sent
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()
	for c := range clients {
		if c.close() {
			metrics.WSConnections.Dec()
		}
	}
}

// Attach registers a client for an upgraded connection and starts its pumps.
func (h *Hub) Attach(conn *websocket.Conn) *Client {
	c := NewClient(h, conn)
	h.Register(c)
	c.Start()
	return c
}
