package editor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/captiveportal/portal-cms/internal/broadcast"
	"github.com/captiveportal/portal-cms/pkg/logger"
)

// Watcher subscribes to the server's push channel and forwards change events.
type Watcher struct {
	url     string
	session string
	dialer  *websocket.Dialer
	// Reconnect is the delay between reconnect attempts; zero disables reconnects.
	Reconnect time.Duration
}

// NewWatcher builds a watcher for the server at baseURL (http or https).
func NewWatcher(baseURL, session string) (*Watcher, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path += "/ws"
	return &Watcher{url: u.String(), session: session, dialer: websocket.DefaultDialer, Reconnect: 3 * time.Second}, nil
}

// Run dials, authenticates and delivers events to fn until ctx is done.
func (w *Watcher) Run(ctx context.Context, fn func(broadcast.Event)) error {
	for {
		err := w.runOnce(ctx, fn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if w.Reconnect <= 0 {
			return err
		}
		logger.Warnf("push channel lost: %v, reconnecting in %s", err, w.Reconnect)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.Reconnect):
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context, fn func(broadcast.Event)) error {
	conn, resp, err := w.dialer.DialContext(ctx, w.url, http.Header{})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", w.url, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	if w.session != "" {
		if err := conn.WriteJSON(map[string]string{"type": broadcast.TypeAuth, "sessionId": w.session}); err != nil {
			return fmt.Errorf("send auth: %w", err)
		}
	}
	logger.Infof("live updates enabled (%s)", w.url)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var evt broadcast.Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			logger.Debugf("ignoring malformed push message: %v", err)
			continue
		}
		if evt.Type == broadcast.TypeContentUpdated {
			fn(evt)
		}
	}
}
