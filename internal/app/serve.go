package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"jobtrack/internal/httpapi"
	"jobtrack/internal/metrics"
)

// shutdownTimeout bounds how long in-flight requests may run after ctx is
// cancelled.
const shutdownTimeout = 10 * time.Second

// Handler builds the HTTP API for this app's owner with a fresh metrics
// registry.
func (a *TrackerApp) Handler() http.Handler {
	return httpapi.NewServer(a.service, metrics.New(), &slogAdapter{l: a.logger}).Router()
}

// Serve runs the HTTP API on l until ctx is cancelled. The operation is
// persisted up front, so the snapshot uploaded on Close covers every write
// made while serving.
func (a *TrackerApp) Serve(ctx context.Context, l net.Listener) error {
	if err := a.persistOperation("addr=" + l.Addr().String()); err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(l)
	}()
	a.logger.Info("serving", "addr", l.Addr().String())

	select {
	case err := <-errCh:
		a.op.Fail()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.op.Fail()
		return fmt.Errorf("shutting down http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}
