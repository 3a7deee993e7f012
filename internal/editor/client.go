package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/captiveportal/portal-cms/internal/content"
)

// SessionHeader carries the session token on authenticated requests.
const SessionHeader = "x-session-id"

// BaseModifiedHeader carries the editor's baseline stamp on saves.
const BaseModifiedHeader = "x-base-modified"

// HTTPClient talks to the portal content API.
type HTTPClient struct {
	base string
	http *http.Client

	mu      sync.RWMutex
	session string
}

func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClient{base: strings.TrimRight(baseURL, "/"), http: hc}
}

// Session returns the token obtained by Login or set by SetSession.
func (c *HTTPClient) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *HTTPClient) SetSession(token string) {
	c.mu.Lock()
	c.session = token
	c.mu.Unlock()
}

// BaseURL returns the server root the client was created with.
func (c *HTTPClient) BaseURL() string { return c.base }

type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type loginResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
	ExpiresAt int64  `json:"expiresAt"`
}

type saveResponse struct {
	Success      bool  `json:"success"`
	LastModified int64 `json:"_lastModified"`
}

// SessionInfo is the result of CheckSession.
type SessionInfo struct {
	Authenticated bool  `json:"authenticated"`
	ExpiresAt     int64 `json:"expiresAt,omitempty"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, hdr map[string]string, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Cache-Control", "no-cache")
	if tok := c.Session(); tok != "" {
		req.Header.Set(SessionHeader, tok)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusConflict:
		return ErrConflict
	case resp.StatusCode >= 300:
		var e apiError
		_ = json.Unmarshal(raw, &e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// Fetch returns the current server document.
func (c *HTTPClient) Fetch(ctx context.Context) (*content.Document, error) {
	var doc content.Document
	if err := c.do(ctx, http.MethodGet, "/api/content", nil, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save posts doc and returns the server-assigned stamp.
func (c *HTTPClient) Save(ctx context.Context, doc *content.Document, base int64) (int64, error) {
	hdr := map[string]string{}
	if base > 0 {
		hdr[BaseModifiedHeader] = strconv.FormatInt(base, 10)
	}
	var out saveResponse
	if err := c.do(ctx, http.MethodPost, "/api/save-content", doc, hdr, &out); err != nil {
		return 0, err
	}
	return out.LastModified, nil
}

// Login exchanges the admin password for a session token and keeps it.
func (c *HTTPClient) Login(ctx context.Context, password string) (string, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{"password": password}, nil, &out)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return "", fmt.Errorf("login: invalid password")
		}
		return "", err
	}
	c.SetSession(out.SessionID)
	return out.SessionID, nil
}

// Logout revokes the current session.
func (c *HTTPClient) Logout(ctx context.Context) error {
	if c.Session() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil, nil)
	c.SetSession("")
	return err
}

func (c *HTTPClient) CheckSession(ctx context.Context) (SessionInfo, error) {
	var out SessionInfo
	err := c.do(ctx, http.MethodGet, "/api/check-session", nil, nil, &out)
	return out, err
}
