package servers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// RunWithGracefulShutdown starts the server and shuts it down on SIGINT/SIGTERM
// or when ctx is done.
// - cleanup: optional, runs before the server stops accepting requests
// - timeout: max duration for in-flight requests to finish
func RunWithGracefulShutdown(ctx context.Context, server *http.Server, log *zap.Logger, cleanup func(), timeout time.Duration) error {
	if log == nil {
		log = zap.NewNop()
	}
	serverErrChan := make(chan error, 1)

	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		} else {
			serverErrChan <- nil
		}
	}()

	osSignalChan := make(chan os.Signal, 1)
	signal.Notify(osSignalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignalChan)

	select {
	case sig := <-osSignalChan:
		log.Info("got signal, shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info("context done, shutting down")
	case err := <-serverErrChan:
		// never started or died on its own
		if cleanup != nil {
			cleanup()
		}
		return err
	}

	if cleanup != nil {
		cleanup()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	// stops accepting at once; in-flight requests get until the timeout
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}

	if err := <-serverErrChan; err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
