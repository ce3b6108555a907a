package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/arborui/arbor/internal/adapters/http"
	"github.com/arborui/arbor/internal/presentation/tui"
	"github.com/arborui/arbor/pkg/adapters/memory"
	redisAdapter "github.com/arborui/arbor/pkg/adapters/redis"
	"github.com/arborui/arbor/pkg/ports"
)

// ServeOptions contains the configuration for the serve command.
type ServeOptions struct {
	Port     string
	RedisURL string
	Debug    bool
}

const shutdownTimeout = 5 * time.Second

// RunServe starts the HTTP API and blocks until the process is signalled.
func RunServe(opts ServeOptions) error {
	tui.PrintBanner()
	logger := createLogger(opts.Debug)

	var store ports.StateStore
	if opts.RedisURL != "" {
		store = redisAdapter.New(opts.RedisURL, "", 0)
		logger.Info("Using redis session store", "addr", opts.RedisURL)
	} else {
		store = memory.NewStore()
		logger.Info("Using in-memory session store")
	}

	server := httpAdapter.NewServer(store, httpAdapter.WithLogger(logger))

	srv := &http.Server{
		Addr:    ":" + opts.Port,
		Handler: server.Handler(),
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting arbor server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-sigCtx.Done():
		logger.Info("Starting shutdown", "signal", fmt.Sprint(sigCtx.Signal()))

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
		logger.Info("Server stopped gracefully")
	}

	return nil
}
