// Package server hosts the REST API and the websocket refresh feed that a
// thin web UI drives the stores through.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/chatdeck/chatdeck/internal/bus"
	"github.com/chatdeck/chatdeck/internal/metrics"
	"github.com/chatdeck/chatdeck/internal/store"
)

// Server serves the chat and folder collections over HTTP and pushes
// refresh signals to websocket subscribers.
type Server struct {
	gw      store.Gateway
	bus     *bus.Bus
	logger  *slog.Logger
	http    *http.Server
	metrics *metrics.Collector
}

// New creates a server around the gateway. Mutations through the API
// publish on the bus so connected sidebars refetch.
func New(gw store.Gateway, b *bus.Bus, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if b == nil {
		b = bus.New()
	}

	s := &Server{
		gw:      gw,
		bus:     b,
		logger:  logger,
		metrics: metrics.NewCollector(),
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table. Exposed so tests can drive the server
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/chats", s.handleListChats)
	mux.HandleFunc("POST /api/chats", s.handleCreateChat)
	mux.HandleFunc("GET /api/chats/{id}", s.handleGetChat)
	mux.HandleFunc("PUT /api/chats/{id}", s.handleUpdateChat)
	mux.HandleFunc("DELETE /api/chats/{id}", s.handleDeleteChat)

	mux.HandleFunc("GET /api/folders", s.handleListFolders)
	mux.HandleFunc("POST /api/folders", s.handleCreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", s.handleGetFolder)
	mux.HandleFunc("PUT /api/folders/{id}", s.handleUpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", s.handleDeleteFolder)

	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /ws", s.handleWS)

	return LoggingMiddleware(s.logger)(MetricsMiddleware(s.metrics)(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	err := <-errCh
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
