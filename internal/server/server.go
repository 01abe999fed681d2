// Package server implements the poolkit HTTP API.
//
// Stateless endpoints take a document in every request:
//
//	GET  /healthz
//	POST /v1/layout          document → layout, minimal size, artifacts
//	POST /v1/render          document → one artifact (?format=svg)
//	POST /v1/hit             document + point → lanes and milestone under it
//	POST /v1/path            document + lane id → path and parent
//
// Session endpoints keep a pool between requests:
//
//	POST   /v1/pools                      create from a document
//	GET    /v1/pools/{id}                 document, version and layout
//	DELETE /v1/pools/{id}
//	PUT    /v1/pools/{id}/lanes           replace the lane tree
//	PUT    /v1/pools/{id}/milestones      replace the milestones
//	PATCH  /v1/pools/{id}                 size, position, angle, padding
//	POST   /v1/pools/{id}/autoresize      grow to the minimal size
//	GET    /v1/pools/{id}/hit?x=&y=
//	GET    /v1/pools/{id}/lanes/{lane}
//	GET    /v1/pools/{id}/milestones/{milestone}
//	GET    /v1/pools/{id}/render?format=svg
//
// Malformed lane or milestone specs are answered with 422 and code
// STRUCTURAL; the message names the offending element.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/poolkit/pkg/cache"
	"github.com/matzehuels/poolkit/pkg/pipeline"
	"github.com/matzehuels/poolkit/pkg/session"
)

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	sessions session.Store
	logger   *log.Logger
	router   chi.Router
}

// New creates a server over an existing runner and session store.
func New(cfg Config, runner *pipeline.Runner, sessions session.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		sessions: sessions,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

// Open connects the backends described by cfg: Redis for cache and sessions
// when RedisURL is set, otherwise a file cache and in-memory sessions.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Server, error) {
	var (
		c        cache.Cache
		sessions session.Store
	)

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		rs, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("redis sessions: %w", err)
		}
		c, sessions = rc, rs
		logger.Info("using redis for cache and sessions")
	} else {
		dir := cfg.CacheDir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, fmt.Errorf("file cache: %w", err)
		}
		c = fc
		logger.Info("using file cache", "dir", dir)

		if cfg.SessionDir != "" {
			fs, err := session.NewFileStore(cfg.SessionDir)
			if err != nil {
				return nil, fmt.Errorf("file sessions: %w", err)
			}
			sessions = fs
			logger.Info("using file sessions", "dir", fs.Path())
		} else {
			sessions = session.NewMemoryStore()
		}
	}

	var keyer cache.Keyer
	if cfg.KeyScope != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.KeyScope+":")
	}
	runner := pipeline.NewRunner(c, keyer, logger)
	runner.TTL = cfg.CacheTTL
	return New(cfg, runner, sessions, logger), nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.limitBody)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/hit", s.handleHit)
		r.Post("/path", s.handlePath)

		r.Route("/pools", func(r chi.Router) {
			r.Post("/", s.handleCreatePool)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetPool)
				r.Delete("/", s.handleDeletePool)
				r.Patch("/", s.handlePatchPool)
				r.Put("/lanes", s.handleSetLanes)
				r.Put("/milestones", s.handleSetMilestones)
				r.Post("/autoresize", s.handleAutoResize)
				r.Get("/hit", s.handlePoolHit)
				r.Get("/lanes/{lane}", s.handlePoolLane)
				r.Get("/milestones/{milestone}", s.handlePoolMilestone)
				r.Get("/render", s.handlePoolRender)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" is not allowed on "+r.URL.Path)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	// Drop expired sessions in the background.
	go s.cleanupLoop(ctx)

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}

// Close releases the runner cache and the session store.
func (s *Server) Close() error {
	return stderrors.Join(s.runner.Close(), s.sessions.Close())
}
