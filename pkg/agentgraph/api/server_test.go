package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/api"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/catalog"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/document"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/persist"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/schema"
)

const graphDoc = `{
  "version": 1,
  "nodes": [
    {"id": "greeting_1", "kind": "greeting", "position": {"x": 0, "y": 0}, "config": {"message": "Hi"}, "status": "configured"},
    {"id": "ivr_1", "kind": "legacy_ivr", "position": {"x": 200, "y": 0}, "config": {}, "status": "pending"}
  ],
  "edges": [
    {"id": "e1", "sourceNodeId": "greeting_1", "targetNodeId": "ivr_1"},
    {"id": "e2", "sourceNodeId": "ivr_1", "targetNodeId": "gone"}
  ]
}`

func newTestServer(t *testing.T) (*httptest.Server, *persist.MemoryStore) {
	t.Helper()
	store := persist.NewMemoryStore()
	srv := httptest.NewServer(api.NewServer(store))
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, resp))
}

func TestGetCatalog(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/catalog", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[api.CatalogResponse](t, resp)
	require.Len(t, body.Templates, 9)
	assert.Equal(t, catalog.KindVoiceConfig, body.Templates[0].Kind)
	require.NotEmpty(t, body.Categories)
	assert.Equal(t, catalog.CategoryAgent, body.Categories[0].Name)
	assert.Contains(t, body.Categories[0].Kinds, catalog.KindPrompt)
}

func TestGetSchema(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/schemas/voice_config", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := decode[schema.Schema](t, resp)
	assert.False(t, s.Generic)
	require.NotEmpty(t, s.Fields)
	assert.Equal(t, "voiceId", s.Fields[0].Name)

	resp = do(t, http.MethodGet, srv.URL+"/schemas/telepathy", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	g := decode[schema.Schema](t, resp)
	assert.True(t, g.Generic)
	assert.Equal(t, "telepathy", g.Kind)
}

func TestGraphLifecycle(t *testing.T) {
	srv, store := newTestServer(t)
	id := uuid.NewString()
	url := srv.URL + "/graphs/" + id

	resp := do(t, http.MethodGet, url, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPut, url, graphDoc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ivr_1", resp.Header.Get(api.HeaderQuarantined))
	assert.Equal(t, "e2", resp.Header.Get(api.HeaderDroppedEdges))
	assert.Equal(t, "1", resp.Header.Get(api.HeaderRevision))
	info := decode[persist.Info](t, resp)
	assert.Equal(t, id, info.GraphID)
	assert.Equal(t, int64(1), info.Revision)

	resp = do(t, http.MethodGet, url, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc, err := document.Unmarshal(raw)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "legacy_ivr", doc.Nodes[1].Kind)
	require.Len(t, doc.Edges, 1, "dangling edge is not stored")

	resp = do(t, http.MethodPut, url, graphDoc)
	assert.Equal(t, "2", resp.Header.Get(api.HeaderRevision))

	resp = do(t, http.MethodGet, srv.URL+"/graphs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	infos := decode[[]persist.Info](t, resp)
	require.Len(t, infos, 1)
	assert.Equal(t, int64(2), infos[0].Revision)

	resp = do(t, http.MethodDelete, url, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, store.Len())

	resp = do(t, http.MethodDelete, url, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "delete is idempotent")
}

func TestPutGraph_Rejections(t *testing.T) {
	srv, store := newTestServer(t)
	url := srv.URL + "/graphs/" + uuid.NewString()

	tests := []struct {
		name   string
		url    string
		body   string
		status int
	}{
		{"not a uuid", srv.URL + "/graphs/my-graph", graphDoc, http.StatusBadRequest},
		{"not json", url, "{nope", http.StatusBadRequest},
		{"newer version", url, `{"version": 9, "nodes": [], "edges": []}`, http.StatusBadRequest},
		{"node without kind", url, `{"version": 1, "nodes": [{"id": "a"}], "edges": []}`, http.StatusUnprocessableEntity},
		{"bad status", url, `{"version": 1, "nodes": [{"id": "a", "kind": "prompt", "status": "done"}], "edges": []}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPut, tt.url, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[api.ErrorResponse](t, resp)
			assert.NotEmpty(t, body.Error)
		})
	}
	assert.Equal(t, 0, store.Len())
}

func TestPutGraph_TooLarge(t *testing.T) {
	store := persist.NewMemoryStore()
	srv := httptest.NewServer(api.NewServer(store, api.WithMaxBodyBytes(64)))
	t.Cleanup(srv.Close)

	resp := do(t, http.MethodPut, srv.URL+"/graphs/"+uuid.NewString(), graphDoc)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestGetGraph_InvalidID(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/graphs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStoreFailure(t *testing.T) {
	store := persist.NewMemoryStore()
	require.NoError(t, store.Close())
	srv := httptest.NewServer(api.NewServer(store))
	t.Cleanup(srv.Close)

	resp := do(t, http.MethodGet, srv.URL+"/graphs", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "list graphs failed", decode[api.ErrorResponse](t, resp).Error)
}
