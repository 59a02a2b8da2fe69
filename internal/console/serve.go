package console

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sufield/libadmin/internal/config"
)

// Start listens on cfg.ListenAddr and serves handler in the background.
//
// The returned shutdown function drains the server within cfg.ShutdownTimeout
// and then runs each cleanup function (closing the backend identity source,
// the audit publisher). It is safe to call more than once; later calls return
// the first result.
func Start(cfg config.ConsoleSection, handler http.Handler, cleanup ...func() error) (addr string, shutdown func() error, err error) {
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return "", nil, fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr, err)
	}

	readHeaderTimeout := cfg.ReadHeaderTimeout
	if readHeaderTimeout == 0 {
		readHeaderTimeout = config.DefaultReadHeaderTimeout
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = config.DefaultShutdownTimeout
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Give the server a moment to fail before reporting success.
	select {
	case err := <-errCh:
		return "", nil, fmt.Errorf("server startup failed: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	var (
		shutdownOnce sync.Once
		shutdownErr  error
	)
	shutdown = func() error {
		shutdownOnce.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			errs := []error{srv.Shutdown(ctx)}
			for _, fn := range cleanup {
				errs = append(errs, fn())
			}
			shutdownErr = errors.Join(errs...)
		})
		return shutdownErr
	}

	return ln.Addr().String(), shutdown, nil
}

// Run serves until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, cfg config.ConsoleSection, handler http.Handler, cleanup ...func() error) error {
	addr, shutdown, err := Start(cfg, handler, cleanup...)
	if err != nil {
		for _, fn := range cleanup {
			_ = fn()
		}
		return err
	}

	log.Printf("Console listening on %s - press Ctrl+C to stop", addr)
	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	if err := shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
