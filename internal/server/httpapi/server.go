package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"wormdetector/internal/logging"
)

// Server runs the API over plain HTTP with graceful shutdown.
type Server struct {
	addr    string
	handler http.Handler
	logger  logging.Logger
}

func NewServer(addr string, handler http.Handler, logger logging.Logger) *Server {
	return &Server{addr: addr, handler: handler, logger: logger}
}

// Run serves until ctx is cancelled, then shuts down gracefully with a short
// drain window.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info(shutdownCtx, "http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
