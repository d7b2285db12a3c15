// Package server owns the HTTP surface shared by every deployment mode:
// middleware, health check, root banner. Feature packages mount their own
// routes via the exposed router.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds server configuration.
type Config struct {
	Port int
	// InstallLink switches the root page from a plain running banner to an
	// "Add to Slack" link (multi-workspace mode).
	InstallLink string
	AllowAll    bool // allow all CORS origins (dev mode)
}

// Server is the relay's HTTP server.
type Server struct {
	cfg        Config
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with middleware and the base routes configured.
func New(cfg Config) *Server {
	s := &Server{cfg: cfg}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// buildRouter creates and configures the chi router with the base routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Slack-Signature", "X-Slack-Request-Timestamp"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.handleRoot)

	// Webhook and OAuth routes are registered by feature packages via
	// RegisterRoutes against Router().

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if s.cfg.InstallLink != "" {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<a href=%q>Add to Slack</a>`, s.cfg.InstallLink)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("chatrelay running"))
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	log.Printf("chatrelay listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server, draining in-flight requests.
// Safe to call concurrently with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
