package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ServerTimeouts http.Server timeouts; zero fields keep the defaults below
type ServerTimeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
}

func (t ServerTimeouts) withDefaults() ServerTimeouts {
	if t.ReadHeader <= 0 {
		t.ReadHeader = 5 * time.Second
	}
	if t.Read <= 0 {
		t.Read = 15 * time.Second
	}
	if t.Write <= 0 {
		t.Write = 60 * time.Second
	}
	if t.Idle <= 0 {
		t.Idle = 120 * time.Second
	}
	return t
}

// Server the workfloor-metrics HTTP listener
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(addr string, handler http.Handler, timeouts ServerTimeouts, logger *zap.Logger) *Server {
	timeouts = timeouts.withDefaults()
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
		ReadTimeout:       timeouts.Read,
		WriteTimeout:      timeouts.Write,
		IdleTimeout:       timeouts.Idle,
	}
	return &Server{httpServer: s, logger: logger}
}

// Start blocks until the server stops; http.ErrServerClosed is returned after Stop
func (s *Server) Start() error {
	s.logger.Info("Starting workfloor-metrics HTTP server",
		zap.String("addr", s.httpServer.Addr),
		zap.Duration("write_timeout", s.httpServer.WriteTimeout),
	)
	return s.httpServer.ListenAndServe()
}

// Stop drains in-flight requests until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping workfloor-metrics HTTP server")
	return s.httpServer.Shutdown(ctx)
}
