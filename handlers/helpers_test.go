package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/captiveportal/portal-cms/internal/broadcast"
	"github.com/captiveportal/portal-cms/internal/content/service"
	"github.com/captiveportal/portal-cms/internal/content/store"
	"github.com/captiveportal/portal-cms/internal/sessions"
	"github.com/captiveportal/portal-cms/internal/storage"
	"github.com/captiveportal/portal-cms/pkg/middleware"
)

const testPassword = "s3cret"

type fixture struct {
	router   *gin.Engine
	sessions *sessions.Service
	store    *store.MemoryStore
	content  *service.Service
	hub      *broadcast.Hub
	blobs    *storage.DiskStore
}

func init() { gin.SetMode(gin.TestMode) }

func newFixture(t *testing.T, mutate func(*Deps), opts ...service.Option) *fixture {
	t.Helper()
	f := &fixture{
		sessions: sessions.NewService(sessions.NewMemoryRepository(), testPassword),
		store:    store.NewMemoryStore(),
		hub:      broadcast.NewHub(),
		blobs:    storage.NewDiskStore(t.TempDir()),
	}
	f.content = service.New(f.store, f.sessions, f.hub, opts...)
	d := Deps{
		Sessions:       f.sessions,
		Content:        f.content,
		Hub:            f.hub,
		Blobs:          f.blobs,
		UploadMaxBytes: 1024,
	}
	if mutate != nil {
		mutate(&d)
	}
	f.router = NewRouter(d)
	t.Cleanup(f.hub.Close)
	return f
}

func newJSONRequest(method, path string, body any) *http.Request {
	var buf *bytes.Reader
	switch b := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func (f *fixture) do(method, path string, body any, session string) *httptest.ResponseRecorder {
	req := newJSONRequest(method, path, body)
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	return serve(f.router, req)
}

func (f *fixture) login(t *testing.T) string {
	t.Helper()
	w := f.do(http.MethodPost, "/api/login", map[string]string{"password": testPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}
