package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pipescope/pipescope/pkg/cache"
	"github.com/pipescope/pipescope/pkg/editor"
	"github.com/pipescope/pipescope/pkg/editor/explorer"
	"github.com/pipescope/pipescope/pkg/errors"
	"github.com/pipescope/pipescope/pkg/graph"
	"github.com/pipescope/pipescope/pkg/render/nodelink"
	"github.com/pipescope/pipescope/pkg/scene"
)

// nodeInfo is the JSON shape of a registry node.
type nodeInfo struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Inputs  int    `json:"inputs"`
	Outputs int    `json:"outputs"`
}

// errorEnvelope is the JSON error response body.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Registry Handlers
// =============================================================================

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"types": s.manager.TypeNames()})
}

func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	infos := make([]nodeInfo, 0)
	for _, id := range s.manager.NodeIDs() {
		if node, ok := s.manager.Node(id); ok {
			infos = append(infos, nodeInfo{
				ID:      node.ID(),
				Type:    node.Type(),
				Inputs:  node.NumInputs(),
				Outputs: node.NumOutputs(),
			})
		}
	}
	s.writeJSON(w, http.StatusOK, map[string][]nodeInfo{"nodes": infos})
}

func (s *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "request body must be {\"type\": \"...\"}"))
		return
	}

	id, err := s.manager.CreateNode(req.Type)
	if err != nil {
		s.writeError(w, err)
		return
	}

	node, _ := s.manager.Node(id)
	s.writeJSON(w, http.StatusCreated, nodeInfo{
		ID:      id,
		Type:    node.Type(),
		Inputs:  node.NumInputs(),
		Outputs: node.NumOutputs(),
	})
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	node, ok := s.manager.Node(id)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNodeNotFound, "no node with identifier %q", id))
		return
	}
	s.writeJSON(w, http.StatusOK, nodeInfo{
		ID:      node.ID(),
		Type:    node.Type(),
		Inputs:  node.NumInputs(),
		Outputs: node.NumOutputs(),
	})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.RemoveNode(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCloneNode duplicates a node the way the editor does: through the
// explorer adapter, so the clone semantics here and in the UI stay one
// and the same.
func (s *Server) handleCloneNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	node, ok := s.manager.Node(id)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNodeNotFound, "no node with identifier %q", id))
		return
	}

	model, err := explorer.New(s.manager, id, node.Type()).Clone()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, nodeInfo{
		ID:      model.Caption(),
		Type:    model.Name(),
		Inputs:  model.NPorts(editor.PortIn),
		Outputs: model.NPorts(editor.PortOut),
	})
}

// =============================================================================
// Scene Handlers
// =============================================================================

func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"scenes": names})
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	doc, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if doc == nil {
		s.writeError(w, errors.New(errors.ErrCodeSceneNotFound, "scene %q not found", name))
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePutScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var g graph.Graph
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse scene body"))
		return
	}

	// Validate the document against the live registry before storing.
	if _, err := graph.ToScene(g, s.manager); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidScene, err, "invalid scene"))
		return
	}

	doc := &scene.Document{Name: name, Graph: g}
	if existing, err := s.store.Get(r.Context(), name); err == nil && existing != nil {
		doc.CreatedAt = existing.CreatedAt
	}
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	doc, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if doc == nil {
		s.writeError(w, errors.New(errors.ErrCodeSceneNotFound, "scene %q not found", name))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if format != "svg" && format != "dot" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be svg or dot)", format))
		return
	}
	opts := nodelink.Options{
		Detailed:  r.URL.Query().Get("detailed") == "1",
		ShowPorts: r.URL.Query().Get("ports") == "1",
	}

	data, err := s.renderArtifact(r, doc, format, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch format {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// renderArtifact produces the requested artifact, consulting the cache
// keyed by the scene's content hash plus render options.
func (s *Server) renderArtifact(r *http.Request, doc *scene.Document, format string, opts nodelink.Options) ([]byte, error) {
	raw, err := graph.MarshalGraph(doc.Graph)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal scene %q", doc.Name)
	}

	key := s.keyer.ArtifactKey(cache.Hash(raw), cache.ArtifactKeyOpts{
		Format:    format,
		Detailed:  opts.Detailed,
		ShowPorts: opts.ShowPorts,
	})
	if data, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
		return data, nil
	}

	dot := nodelink.ToDOT(doc.Graph, opts)
	var data []byte
	if format == "dot" {
		data = []byte(dot)
	} else {
		data, err = nodelink.RenderSVG(dot)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render scene %q", doc.Name)
		}
	}

	if err := s.cache.Set(r.Context(), key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache artifact", "scene", doc.Name, "err", err)
	}
	return data, nil
}

// =============================================================================
// Response Helpers
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var env errorEnvelope
	env.Error.Code = string(errors.GetCode(err))
	if env.Error.Code == "" {
		env.Error.Code = string(errors.ErrCodeInternal)
	}
	env.Error.Message = errors.UserMessage(err)

	s.writeJSON(w, httpStatus(errors.GetCode(err)), env)
}

// httpStatus maps error codes to HTTP status codes.
func httpStatus(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScene, errors.ErrCodeInvalidPort, errors.ErrCodeInvalidType:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeSceneNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNodeCreationFailed, errors.ErrCodeDuplicateType:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
