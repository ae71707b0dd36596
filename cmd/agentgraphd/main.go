// Command agentgraphd serves voice-agent graphs over HTTP.
//
// Usage:
//
//	agentgraphd -config agentgraphd.yaml
//
// Without -config the server listens on :8080 and stores graphs in
// agentgraph.db with the built-in node catalog.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/api"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/schema"
)

func main() {
	configPath := flag.String("config", "", "settings file (.yaml, .yml or .json)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintln(os.Stderr, "agentgraphd:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	s, err := loadSettings(configPath)
	if err != nil {
		return err
	}
	logger := s.logger()

	cat, err := s.catalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	schemas := schema.DefaultRegistry()
	if err := schemas.Check(cat); err != nil {
		logger.Warn("catalog kinds will use the generic schema", slog.String("detail", err.Error()))
	}

	store, err := s.openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr: s.Addr,
		Handler: api.NewServer(store,
			api.WithCatalog(cat),
			api.WithSchemas(schemas),
			api.WithLogger(logger),
			api.WithMaxBodyBytes(s.MaxBodyBytes),
		),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			slog.String("addr", s.Addr),
			slog.String("store", s.StoreDriver),
			slog.Int("templates", cat.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
