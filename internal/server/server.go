// Package server hosts the scantext session behind an HTTP API and the
// embedded web page.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jackzampolin/scantext/internal/api"
	"github.com/jackzampolin/scantext/internal/config"
	"github.com/jackzampolin/scantext/internal/export"
	"github.com/jackzampolin/scantext/internal/extract"
	"github.com/jackzampolin/scantext/internal/home"
	"github.com/jackzampolin/scantext/internal/server/endpoints"
	"github.com/jackzampolin/scantext/internal/svcctx"
	"github.com/jackzampolin/scantext/internal/view"
)

// Server is the scantext HTTP server. It owns a single session.
type Server struct {
	httpServer *http.Server
	extractor  *extract.Client
	controller *view.Controller
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
	closed  bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: server.host from config)
	Host string
	// Port is the port to listen on (default: server.port from config)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the scantext home directory
	Home *home.Dir
	// Clipboard receives copied text (default: the system clipboard)
	Clipboard export.Clipboard
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a Server and its session from the current configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager == nil {
		return nil, errors.New("server: config manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	c := cfg.ConfigManager.Get()
	if cfg.Host == "" {
		cfg.Host = c.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = c.Server.Port
	}

	sess, err := NewSession(c, cfg.Clipboard, cfg.Logger)
	if err != nil {
		return nil, err
	}
	extractor, controller := sess.Extractor, sess.Controller

	// The OCR endpoint can move while the server runs.
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		extractor.SetBaseURL(c.OCR.BaseURL)
		cfg.Logger.Info("OCR endpoint reloaded from config", "url", extractor.BaseURL())
	})

	s := &Server{
		extractor:  extractor,
		controller: controller,
		configMgr:  cfg.ConfigManager,
		logger:     cfg.Logger,
		services: &svcctx.Services{
			Controller: controller,
			Extractor:  extractor,
			Config:     cfg.ConfigManager,
			Logger:     cfg.Logger,
			Home:       cfg.Home,
		},
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(s.withServices)
	s.endpointRegistry.RegisterRoutes(router, s.requireSession)

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// Extraction waits on the OCR server.
		WriteTimeout: c.OCR.Timeout() + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start serves HTTP until ctx is cancelled or the listener fails, then
// shuts down and closes the session.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	if s.closed {
		s.mu.Unlock()
		return errors.New("server already stopped")
	}
	s.running = true
	s.mu.Unlock()

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", listener.Addr().String(), "ocr", s.extractor.Endpoint())
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}
	s.Close()

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

// Close ends the session: pending extractions are cancelled and timers stop.
// Session routes answer 503 afterwards.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.controller.Close()
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Controller returns the session controller.
func (s *Server) Controller() *view.Controller {
	return s.controller
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := svcctx.WithServices(r.Context(), s.services)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSession rejects session routes with 503 once the session is closed.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		closed := s.closed
		s.mu.RUnlock()
		if closed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"session closed"}`))
			return
		}
		next(w, r)
	}
}
