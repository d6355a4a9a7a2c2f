// Package server implements the Pipescope HTTP API.
//
// The API exposes the node registry and scene store over JSON:
//
//	GET    /healthz                     liveness probe
//	GET    /api/types                   registered node type names
//	GET    /api/nodes                   live registry nodes
//	POST   /api/nodes                   create a node {"type": "Filter"}
//	GET    /api/nodes/{id}              inspect one node
//	DELETE /api/nodes/{id}              remove a node
//	POST   /api/nodes/{id}/clone        duplicate a node
//	GET    /api/scenes                  stored scene names
//	GET    /api/scenes/{name}           fetch a scene document
//	PUT    /api/scenes/{name}           store a scene document
//	DELETE /api/scenes/{name}           delete a scene
//	GET    /api/scenes/{name}/render    render a scene (format=svg|dot)
//
// Errors use a JSON envelope {"error": {"code", "message"}} with the codes
// from pkg/errors, so clients can branch on the code rather than the text.
package server

import (
	"context"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pipescope/pipescope/pkg/cache"
	"github.com/pipescope/pipescope/pkg/pipeline"
	"github.com/pipescope/pipescope/pkg/scene"
)

// Server wires the registry, scene store, and artifact cache behind the
// HTTP API.
type Server struct {
	manager  *pipeline.Manager
	store    scene.Store
	cache    cache.Cache
	keyer    cache.Keyer
	cacheTTL time.Duration
	logger   *charmlog.Logger
}

// Options configures a Server.
type Options struct {
	// Manager is the node registry. Required.
	Manager *pipeline.Manager

	// Store persists scenes. Required.
	Store scene.Store

	// Cache holds rendered artifacts. Nil disables caching.
	Cache cache.Cache

	// Keyer constructs artifact cache keys. Nil uses the default keyer;
	// deployments sharing one cache across stores inject a scoped one.
	Keyer cache.Keyer

	// CacheTTL expires cached artifacts. Zero means no expiry.
	CacheTTL time.Duration

	// Logger receives request and error logs. Nil uses the default.
	Logger *charmlog.Logger
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Logger == nil {
		opts.Logger = charmlog.Default()
	}
	return &Server{
		manager:  opts.Manager,
		store:    opts.Store,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		cacheTTL: opts.CacheTTL,
		logger:   opts.Logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/types", s.handleListTypes)

		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", s.handleListNodes)
			r.Post("/", s.handleCreateNode)
			r.Get("/{id}", s.handleGetNode)
			r.Delete("/{id}", s.handleRemoveNode)
			r.Post("/{id}/clone", s.handleCloneNode)
		})

		r.Route("/scenes", func(r chi.Router) {
			r.Get("/", s.handleListScenes)
			r.Get("/{name}", s.handleGetScene)
			r.Put("/{name}", s.handlePutScene)
			r.Delete("/{name}", s.handleDeleteScene)
			r.Get("/{name}/render", s.handleRenderScene)
		})
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("API listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// requestLogger logs one line per request with method, path, and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}
