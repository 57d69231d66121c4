package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nDmitry/tgpulse/internal/app"
	"github.com/nDmitry/tgpulse/internal/cache"
	"github.com/nDmitry/tgpulse/internal/entity"
)

// Scraper produces a collected channel on demand.
type Scraper interface {
	ParseChannel(ctx context.Context, channelName string, days, maxPosts int) (*entity.Channel, error)
}

// Analyzer derives metrics from a collected channel.
type Analyzer interface {
	Analyze(channel *entity.Channel, days int) *entity.Metrics
}

// Server represents the REST API server
type Server struct {
	mux         *http.ServeMux
	server      *http.Server
	logger      *slog.Logger
	cache       cache.Cache
	scraper     Scraper
	analyzer    Analyzer
	defaultDays int
	port        string
}

// NewServer creates a new REST API server
func NewServer(c cache.Cache, s Scraper, a Analyzer, defaultDays int, port string) *Server {
	mux := http.NewServeMux()
	logger := app.Logger()

	server := &Server{
		mux:         mux,
		logger:      logger,
		cache:       c,
		scraper:     s,
		analyzer:    a,
		defaultDays: defaultDays,
		port:        port,
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           nil,               // Will be set in Run
			ReadHeaderTimeout: 10 * time.Second,  // Mitigate Slowloris
			ReadTimeout:       30 * time.Second,  // Time to read entire request (including body)
			WriteTimeout:      5 * time.Minute,   // Analysis walks many pages under a rate limit
			IdleTimeout:       120 * time.Second, // Keep-alive timeout
		},
	}

	server.registerHandlers()

	return server
}

// registerHandlers sets up all API routes
func (s *Server) registerHandlers() {
	NewChannelHandler(s.mux, s.cache, s.scraper, s.analyzer, s.defaultDays)
}

// Run starts the server and blocks until the context is canceled
func (s *Server) Run(ctx context.Context) error {
	// Apply middleware to the router
	s.server.Handler = Logger(s.mux)

	// Set BaseContext to pass the parent context
	s.server.BaseContext = func(_ net.Listener) context.Context { return ctx }

	s.server.RegisterOnShutdown(func() {
		s.logger.Info("Server is shutting down...")
	})

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server", "port", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exited gracefully")

	return nil
}
