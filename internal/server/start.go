package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nfrund/flavorfusion/internal/pubsub"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server until ctx is canceled or an interrupt or
// terminate signal arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	activity := pubsub.NewActivityLogger(s.bus, s.logger)
	if err := activity.Start(ctx); err != nil {
		return err
	}
	s.registry.StartJanitor(ctx, janitorInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", addr)
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}
