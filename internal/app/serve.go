package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"trainings/internal/config"
	"trainings/internal/logger"
)

// ServeMCP runs the editor as an MCP server on stdin/stdout until the
// client disconnects or the process is interrupted.
func ServeMCP(cfg *config.Config, log *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := a.Startup(ctx); err != nil {
		a.Shutdown(context.Background())
		return err
	}

	srv := a.MCP()
	done := make(chan error, 1)
	go func() { done <- srv.ServeStdio() }()

	var serveErr error
	select {
	case serveErr = <-done:
	case <-ctx.Done():
		log.Info("interrupted, shutting down")
	}

	if err := a.Shutdown(context.Background()); err != nil {
		log.Error("shutdown", "error", err)
	}
	if serveErr != nil {
		return fmt.Errorf("mcp server: %w", serveErr)
	}
	return nil
}
