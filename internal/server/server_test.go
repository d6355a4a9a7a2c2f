package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pipescope/pipescope/pkg/cache"
	"github.com/pipescope/pipescope/pkg/graph"
	"github.com/pipescope/pipescope/pkg/pipeline"
	"github.com/pipescope/pipescope/pkg/scene"
)

func newTestServer(t *testing.T) (*Server, *pipeline.Manager) {
	t.Helper()
	mgr := pipeline.NewDefaultManager()
	srv := New(Options{
		Manager: mgr,
		Store:   scene.NewMemoryStore(),
	})
	return srv, mgr
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestListTypes(t *testing.T) {
	srv, mgr := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/types", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decode[map[string][]string](t, rec)
	if got, want := len(body["types"]), len(mgr.TypeNames()); got != want {
		t.Errorf("types = %d, want %d", got, want)
	}
}

func TestCreateAndGetNode(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/nodes", map[string]string{"type": pipeline.TypeMerge})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[nodeInfo](t, rec)
	if created.Type != pipeline.TypeMerge || created.Inputs != 2 || created.Outputs != 1 {
		t.Errorf("created = %+v", created)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/nodes/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	got := decode[nodeInfo](t, rec)
	if got != created {
		t.Errorf("get = %+v, want %+v", got, created)
	}
}

func TestCreateNodeErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{name: "UnknownType", body: map[string]string{"type": "Doppler"}, wantStatus: 422, wantCode: "NODE_CREATION_FAILED"},
		{name: "EmptyBody", body: map[string]string{}, wantStatus: 400, wantCode: "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/nodes", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decode[errorEnvelope](t, rec)
			if env.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestCloneNode(t *testing.T) {
	srv, mgr := newTestServer(t)
	router := srv.Router()

	id, err := mgr.CreateNode(pipeline.TypeFilter)
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/nodes/%s/clone", id), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("clone status = %d: %s", rec.Code, rec.Body.String())
	}
	clone := decode[nodeInfo](t, rec)
	if clone.ID == id {
		t.Error("clone reuses original identifier")
	}
	if clone.Type != pipeline.TypeFilter {
		t.Errorf("clone type = %q, want Filter", clone.Type)
	}
	if _, ok := mgr.Node(clone.ID); !ok {
		t.Error("registry has no live node for clone")
	}

	rec = doJSON(t, router, http.MethodPost, "/api/nodes/nope/clone", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("clone of missing node status = %d, want 404", rec.Code)
	}
}

func TestRemoveNode(t *testing.T) {
	srv, mgr := newTestServer(t)
	router := srv.Router()

	id, err := mgr.CreateNode(pipeline.TypeSink)
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}

	rec := doJSON(t, router, http.MethodDelete, "/api/nodes/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodDelete, "/api/nodes/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func sceneBody(t *testing.T, mgr *pipeline.Manager) graph.Graph {
	t.Helper()
	srcID, err := mgr.CreateNode(pipeline.TypeSource)
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	sinkID, err := mgr.CreateNode(pipeline.TypeSink)
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	return graph.Graph{
		Nodes: []graph.Node{
			{Element: "e1", NodeID: srcID, Type: pipeline.TypeSource, Outputs: 1},
			{Element: "e2", NodeID: sinkID, Type: pipeline.TypeSink, Inputs: 1},
		},
		Edges: []graph.Edge{{From: "e1", FromPort: 0, To: "e2", ToPort: 0}},
	}
}

func TestSceneLifecycle(t *testing.T) {
	srv, mgr := newTestServer(t)
	router := srv.Router()
	g := sceneBody(t, mgr)

	// Store.
	rec := doJSON(t, router, http.MethodPut, "/api/scenes/demo", g)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body.String())
	}

	// List.
	rec = doJSON(t, router, http.MethodGet, "/api/scenes/", nil)
	names := decode[map[string][]string](t, rec)
	if len(names["scenes"]) != 1 || names["scenes"][0] != "demo" {
		t.Errorf("scenes = %v, want [demo]", names["scenes"])
	}

	// Fetch.
	rec = doJSON(t, router, http.MethodGet, "/api/scenes/demo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	doc := decode[scene.Document](t, rec)
	if len(doc.Graph.Nodes) != 2 || len(doc.Graph.Edges) != 1 {
		t.Errorf("doc graph = %+v", doc.Graph)
	}

	// Render DOT (avoids the graphviz runtime in unit tests).
	req := httptest.NewRequest(http.MethodGet, "/api/scenes/demo/render?format=dot&detailed=1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("render status = %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "digraph scene {") {
		t.Errorf("render body is not DOT: %s", rr.Body.String())
	}

	// Delete.
	rec = doJSON(t, router, http.MethodDelete, "/api/scenes/demo", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/scenes/demo", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestPutSceneValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	// Edge referencing an element that doesn't exist.
	bad := graph.Graph{
		Nodes: []graph.Node{{Element: "e1", NodeID: "x", Type: pipeline.TypeFilter}},
		Edges: []graph.Edge{{From: "e1", FromPort: 0, To: "e9", ToPort: 0}},
	}
	rec := doJSON(t, router, http.MethodPut, "/api/scenes/bad", bad)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	env := decode[errorEnvelope](t, rec)
	if env.Error.Code != "INVALID_SCENE" {
		t.Errorf("code = %q, want INVALID_SCENE", env.Error.Code)
	}
}

// recordingCache remembers the keys written through it.
type recordingCache struct {
	cache.Cache
	keys []string
}

func (c *recordingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.keys = append(c.keys, key)
	return c.Cache.Set(ctx, key, data, ttl)
}

func TestRenderUsesInjectedKeyer(t *testing.T) {
	mgr := pipeline.NewDefaultManager()
	rec := &recordingCache{Cache: cache.NewNullCache()}
	srv := New(Options{
		Manager: mgr,
		Store:   scene.NewMemoryStore(),
		Cache:   rec,
		Keyer:   cache.NewScopedKeyer(cache.NewDefaultKeyer(), "memory:"),
	})
	router := srv.Router()

	g := sceneBody(t, mgr)
	if rr := doJSON(t, router, http.MethodPut, "/api/scenes/scoped", g); rr.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rr.Code, rr.Body.String())
	}
	if rr := doJSON(t, router, http.MethodGet, "/api/scenes/scoped/render?format=dot", nil); rr.Code != http.StatusOK {
		t.Fatalf("render status = %d: %s", rr.Code, rr.Body.String())
	}

	if len(rec.keys) == 0 {
		t.Fatal("render did not write to the cache")
	}
	for _, key := range rec.keys {
		if !strings.HasPrefix(key, "memory:artifact:") {
			t.Errorf("cache key = %q, want memory:artifact: prefix", key)
		}
	}
}

func TestRenderUnknownScene(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/scenes/nope/render", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
