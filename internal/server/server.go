// Package server runs the sync server's HTTP transport: startup, signal
// handling, and graceful shutdown.
package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/ewalker114/lifelog/internal/config"
	"github.com/ewalker114/lifelog/internal/logger"
)

// Server is the lifecycle contract of the transport server. RunServer
// blocks until shutdown is requested; Shutdown releases resources.
type Server interface {
	RunServer()
	Shutdown()
}

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

// NewServer wires the router into an HTTP server listening on the
// configured address.
func NewServer(router http.Handler, cfg *config.ServerConfig, log *logger.Logger) Server {
	log.Info().Msg("creating new server...")

	return &server{
		httpServer: newHTTPServer(router, cfg, log),
		logger:     log,
	}
}

// RunServer serves until SIGTERM, SIGINT, or SIGQUIT arrives, then shuts
// down gracefully, letting in-flight requests finish.
func (s *server) RunServer() {
	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	go func() {
		<-ctx.Done()
		s.Shutdown()
		close(idleConnectionsClosed)
	}()

	s.httpServer.RunServer()
	<-idleConnectionsClosed

	s.logger.Info().Msg("server stopped")
}

// Shutdown gracefully stops the HTTP listener.
func (s *server) Shutdown() {
	s.httpServer.Shutdown()
}
