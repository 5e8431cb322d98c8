// Package api provides the HTTP server for serve mode.
//
// It fronts the conversation pipeline with a small JSON API so wall
// tablets and shortcuts can post messages without shelling out to the
// CLI. The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hearthline/hearth-core/internal/assistant"
	"github.com/hearthline/hearth-core/internal/infrastructure/config"
	"github.com/hearthline/hearth-core/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Pipeline is the conversation surface the server fronts. Satisfied by
// *assistant.Assistant.
type Pipeline interface {
	Run(ctx context.Context, userMsg string) (assistant.Outcome, error)
	ResetHistory(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Logger   *logging.Logger
	Pipeline Pipeline
	Version  string
}

// Server is the HTTP front for the conversation pipeline.
//
// Requests are handled sequentially downstream (the preference store and
// history repository assume one writer), but the server itself is safe
// for concurrent use.
type Server struct {
	cfg      config.APIConfig
	logger   *logging.Logger
	pipeline Pipeline
	version  string
	server   *http.Server
}

// New creates an API server. The server is not started until Start() is
// called.
func New(deps Deps) (*Server, error) {
	if deps.Pipeline == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger.With("component", "api"),
		pipeline: deps.Pipeline,
		version:  deps.Version,
	}, nil
}

// Start launches the HTTP listener in a background goroutine. The server
// is stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server started", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the server, waiting for in-flight requests
// up to gracefulShutdownTimeout.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
