// Package server implements the MojoCode HTTP API: repository listing,
// API-key checks, task submission, and the task-event WebSocket stream.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mojocode/mojocode/internal/config"
	"github.com/mojocode/mojocode/internal/domain"
	"github.com/mojocode/mojocode/internal/logging"
	"github.com/mojocode/mojocode/internal/store"
	"github.com/mojocode/mojocode/internal/version"
)

// RepoLister is the upstream repository source backing
// /api/github/repos.
type RepoLister interface {
	ListRepos(ctx context.Context, owner string) ([]domain.RepoReference, error)
}

// Server is the MojoCode HTTP API server.
type Server struct {
	cfg     config.Config
	log     *logging.Logger
	repos   RepoLister
	version string

	// Task store (optional; nil when no DATABASE_URL is configured)
	pool *store.Pool

	// Per-owner repository cache for the process lifetime.
	repoMu    sync.RWMutex
	repoCache map[string][]domain.RepoReference

	hub        *Hub
	startedAt  time.Time
	httpServer *http.Server
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithTaskStore sets the Postgres pool used to persist submissions.
func WithTaskStore(pool *store.Pool) ServerOption {
	return func(s *Server) {
		s.pool = pool
	}
}

// WithRepoLister sets the upstream repository source.
func WithRepoLister(r RepoLister) ServerOption {
	return func(s *Server) {
		s.repos = r
	}
}

// New creates a server.
func New(cfg config.Config, log *logging.Logger, opts ...ServerOption) *Server {
	s := &Server{
		cfg:       cfg,
		log:       log.Sub("server"),
		version:   version.Version,
		repoCache: make(map[string][]domain.RepoReference),
	}
	s.hub = NewHub(cfg.Server.AllowedOrigins, s.log)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.ServerConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP connections. It blocks until the
// context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Server)

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := withMiddleware(mux, s.log, s.cfg.Server.AllowedOrigins)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.startedAt = time.Now()

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Server.Bind).
		Bool("store", s.pool != nil).
		Msg("api server ready")

	// Shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.hub.CloseAll()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
