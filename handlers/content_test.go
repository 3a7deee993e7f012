package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captiveportal/portal-cms/internal/content"
	"github.com/captiveportal/portal-cms/internal/content/service"
)

func TestGetContentAbsentDocumentIsDefault(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(http.MethodGet, "/api/content", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	for _, key := range []string{"heroVideos", "heroBanners", "blockSets", "chips", "editorsPicks"} {
		assert.Equal(t, []any{}, body[key], key)
	}
	assert.Contains(t, body, "footer")
	assert.Contains(t, body, "utilities")
	assert.NotContains(t, body, "_lastModified")
}

func TestSaveContentRequiresSession(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(http.MethodPost, "/api/save-content", content.Default(), "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode(t, w)["kind"])

	w = f.do(http.MethodPost, "/api/save-content", content.Default(), "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSaveContentRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	tok := f.login(t)

	doc := content.Default()
	doc.Chips = []content.Chip{{ID: "c1", NameEnglish: "Food", Link: "/food"}}
	w := f.do(http.MethodPost, "/api/save-content", doc, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	stamp, ok := body["_lastModified"].(float64)
	require.True(t, ok)
	assert.Positive(t, stamp)

	w = f.do(http.MethodGet, "/api/content", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, stamp, got["_lastModified"])
	chips := got["chips"].([]any)
	require.Len(t, chips, 1)
	assert.Equal(t, "Food", chips[0].(map[string]any)["nameEnglish"])
}

func TestSaveContentBadBody(t *testing.T) {
	f := newFixture(t, nil)
	tok := f.login(t)
	w := f.do(http.MethodPost, "/api/save-content", "[1,2", tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/save-content", "", tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveContentStoreFailure(t *testing.T) {
	f := newFixture(t, nil)
	tok := f.login(t)
	f.store.FailSave = errors.New("disk full")

	w := f.do(http.MethodPost, "/api/save-content", content.Default(), tok)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "PersistenceFailure", decode(t, w)["kind"])
}

func TestSaveContentStrictConflict(t *testing.T) {
	f := newFixture(t, nil, service.WithStrictConcurrency(true))
	tok := f.login(t)

	w := f.do(http.MethodPost, "/api/save-content", content.Default(), tok)
	require.Equal(t, http.StatusOK, w.Code)
	first := int64(decode(t, w)["_lastModified"].(float64))

	// a second save based on the current stamp succeeds
	req := f.saveWithBase(tok, first)
	require.Equal(t, http.StatusOK, req.Code, req.Body.String())

	// a save still based on the first stamp is stale
	stale := f.saveWithBase(tok, first)
	require.Equal(t, http.StatusConflict, stale.Code)
	assert.Equal(t, "ConflictDetected", decode(t, stale)["kind"])
}

func TestSaveContentAdvisoryIgnoresBase(t *testing.T) {
	f := newFixture(t, nil)
	tok := f.login(t)
	require.Equal(t, http.StatusOK, f.saveWithBase(tok, 1).Code)
	require.Equal(t, http.StatusOK, f.saveWithBase(tok, 1).Code)
}

func TestSaveContentInvalidBaseHeader(t *testing.T) {
	f := newFixture(t, nil)
	tok := f.login(t)
	req := newJSONRequest(http.MethodPost, "/api/save-content", content.Default())
	req.Header.Set("x-session-id", tok)
	req.Header.Set(BaseModifiedHeader, "yesterday")
	w := serve(f.router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (f *fixture) saveWithBase(tok string, base int64) *httptest.ResponseRecorder {
	req := newJSONRequest(http.MethodPost, "/api/save-content", content.Default())
	req.Header.Set("x-session-id", tok)
	req.Header.Set(BaseModifiedHeader, strconv.FormatInt(base, 10))
	return serve(f.router, req)
}
