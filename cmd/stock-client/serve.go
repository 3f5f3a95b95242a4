package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	delivery "golang-stock-dashboard/internal/dashboard/delivery/http"
	"golang-stock-dashboard/pkg/logger"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the headless session API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, appLogger, session := bootstrap(false)
	defer func() { _ = appLogger.Sync() }()

	e := delivery.NewRouter(session, appLogger)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return session.Run(gctx)
	})
	g.Go(func() error {
		addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	appLogger.Info("Server exiting")
	return err
}
