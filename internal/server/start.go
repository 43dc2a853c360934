package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server and the page sweeper until ctx is done, then
// shuts everything down.
func (s *Server) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.Pages.Run(runCtx)

	if s.Cfg.SlidesFile != "" {
		if err := s.Catalog.Watch(runCtx, s.Cfg.SlidesFile); err != nil {
			slog.Warn("Slide manifest will not be reloaded", "path", s.Cfg.SlidesFile, "error", err)
		}
	}

	errc := make(chan error, 1)
	go func() {
		if err := s.E.Start(s.Cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	var startErr error
	select {
	case <-ctx.Done():
	case startErr = <-errc:
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return errors.Join(startErr, s.Shutdown(shutdownCtx))
}

// Shutdown stops accepting requests, closes live connections and pages, and
// releases the event bus.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down server")
	err := s.E.Shutdown(ctx)
	s.Bridge.Close()
	s.Pages.Shutdown()
	return errors.Join(err, s.bus.Close())
}
