// Package server provides the HTTP REST API over analysis runs. Runs are
// executed asynchronously and held in memory; clients poll for completion.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/jgarber/feedback-radar/internal/config"
	"github.com/jgarber/feedback-radar/internal/pipeline"
)

// Runner executes one analysis pipeline for a request-scoped config.
// Injected so the server stays testable without network access.
type Runner func(ctx context.Context, cfg config.Config) (*pipeline.Result, error)

// Config holds server configuration.
type Config struct {
	Addr string
	// JWTSecret enables bearer-token auth on /api routes when non-empty.
	JWTSecret string
	// Base supplies run defaults; requests override product, platforms,
	// posts, and strategy.
	Base config.Config
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	cfg        Config
	runner     Runner
	runs       *runStore
}

// New creates a server with its routes configured.
func New(cfg Config, runner Runner) *Server {
	s := &Server{
		cfg:    cfg,
		runner: runner,
		runs:   newRunStore(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	if cfg.JWTSecret != "" {
		api.Use(AuthMiddleware(cfg.JWTSecret))
	}
	api.HandleFunc("/analyses", s.handleCreateAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/analyses", s.handleListAnalyses).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id}", s.handleGetAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id}/matrix", s.handleGetMatrix).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id}/complaints", s.handleGetComplaints).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id}/details.csv", s.handleGetDetailsCSV).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the server until ctx is canceled or SIGINT/SIGTERM arrives,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[SERVER] Listening on %s", s.cfg.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	case sig := <-sigCh:
		log.Printf("[SERVER] Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[SERVER] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
