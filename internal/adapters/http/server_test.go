package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/arborui/arbor/internal/adapters/http"
	"github.com/arborui/arbor/pkg/adapters/memory"
	"github.com/arborui/arbor/pkg/domain"
)

type recordingDispatcher struct {
	messages []domain.Message
}

func (d *recordingDispatcher) Dispatch(_ context.Context, _ domain.Channel, msg domain.Message) error {
	d.messages = append(d.messages, msg)
	return nil
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func setupSession(t *testing.T, h http.Handler) {
	t.Helper()

	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/sessions", map[string]any{"id": "s1"}).Code)
	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/sessions/s1/nodes", map[string]any{"id": "form", "kind": "layout"}).Code)
	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/sessions/s1/nodes", map[string]any{"id": "save", "kind": "button"}).Code)
	require.Equal(t, http.StatusNoContent, do(t, h, "POST", "/sessions/s1/nodes/save/attach", map[string]any{"parent": "form"}).Code)
	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/sessions/s1/nodes/save/channels",
		map[string]any{"name": "click", "kind": "dom-event"}).Code)
}

func TestServer_SessionLifecycle(t *testing.T) {
	h := adapter.NewServer(memory.NewStore()).Handler()
	setupSession(t, h)

	rec := do(t, h, "GET", "/sessions", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "s1")

	rec = do(t, h, "GET", "/sessions/s1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var snap domain.TreeSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Roots, 1)
	assert.Equal(t, "form", snap.Roots[0].ID)
	require.Len(t, snap.Roots[0].Children, 1)

	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/sessions/s1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/sessions/s1", nil).Code)
}

func TestServer_EnabledStateRoundTrip(t *testing.T) {
	h := adapter.NewServer(memory.NewStore()).Handler()
	setupSession(t, h)

	rec := do(t, h, "GET", "/sessions/s1/nodes/save/enabled", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enabled": true}`, rec.Body.String())

	require.Equal(t, http.StatusNoContent, do(t, h, "PUT", "/sessions/s1/nodes/form/enabled", map[string]any{"enabled": false}).Code)

	rec = do(t, h, "GET", "/sessions/s1/nodes/save/enabled", nil)
	assert.JSONEq(t, `{"enabled": false}`, rec.Body.String(), "disable cascades to the child")
}

func TestServer_MessageGating(t *testing.T) {
	disp := &recordingDispatcher{}
	h := adapter.NewServer(memory.NewStore(), adapter.WithDispatcher(disp)).Handler()
	setupSession(t, h)

	msg := map[string]any{"node_id": "save", "channel": "click", "payload": map[string]any{"x": 1}}

	rec := do(t, h, "POST", "/sessions/s1/messages", msg)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, disp.messages, 1)

	// Disable the form; the click is dropped but the client still sees 202.
	require.Equal(t, http.StatusNoContent, do(t, h, "PUT", "/sessions/s1/nodes/form/enabled", map[string]any{"enabled": false}).Code)

	rec = do(t, h, "POST", "/sessions/s1/messages", msg)
	assert.Equal(t, http.StatusAccepted, rec.Code, "drop is silent at the transport layer")
	assert.Len(t, disp.messages, 1, "dropped message never reached the dispatcher")

	// Unknown channel is a host configuration problem, not a silent drop.
	rec = do(t, h, "POST", "/sessions/s1/messages", map[string]any{"node_id": "save", "channel": "bogus"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ValidationFailures(t *testing.T) {
	h := adapter.NewServer(memory.NewStore()).Handler()
	setupSession(t, h)

	rec := do(t, h, "POST", "/sessions/s1/nodes/save/channels",
		map[string]any{"name": "weird", "kind": "smoke-signal"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "POST", "/sessions/s1/nodes", map[string]any{"id": "form", "kind": "layout"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, "POST", "/sessions", map[string]any{"id": "s1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_RestoresFromStore(t *testing.T) {
	store := memory.NewStore()
	h := adapter.NewServer(store).Handler()
	setupSession(t, h)
	require.Equal(t, http.StatusNoContent, do(t, h, "PUT", "/sessions/s1/nodes/form/enabled", map[string]any{"enabled": false}).Code)

	// A fresh server sharing the store picks the session up lazily.
	h2 := adapter.NewServer(store).Handler()
	rec := do(t, h2, "GET", "/sessions/s1/nodes/save/enabled", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enabled": false}`, rec.Body.String())
}
