package main

import (
	"fmt"
	"log"
	"os"

	"golang-stock-dashboard/internal/dashboard/config"
	"golang-stock-dashboard/internal/dashboard/repository"
	"golang-stock-dashboard/internal/dashboard/service"
	"golang-stock-dashboard/pkg/logger"

	"github.com/spf13/cobra"
)

var configPath string

// newLogger builds the application logger. The interactive client must not
// write to the terminal, so it logs to the configured file or nowhere.
func newLogger(cfg *config.Config, interactive bool) (*logger.Logger, error) {
	if !interactive {
		return logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	}
	if cfg.Logger.File == "" {
		return logger.NewNop(), nil
	}
	return logger.NewWithOutput(cfg.Logger.Level, cfg.Logger.Encoding, cfg.Logger.File)
}

// bootstrap loads configuration and wires a session against the backend.
func bootstrap(interactive bool) (*config.Config, *logger.Logger, *service.Session) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return build(cfg, interactive)
}

func build(cfg *config.Config, interactive bool) (*config.Config, *logger.Logger, *service.Session) {
	appLogger, err := newLogger(cfg, interactive)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	appLogger.Info("Starting stock dashboard client",
		logger.Field("name", cfg.App.Name),
		logger.StringField("backend", cfg.Backend.BaseURL))

	repo := repository.NewBackendRepository(cfg, appLogger)
	session := service.NewSession(cfg, appLogger, repo)
	return cfg, appLogger, session
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "stock-client",
		Short: "Stock dashboard client for the analytics backend",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-client.yaml", "Path to the configuration file")

	rootCmd.AddCommand(tuiCmd, serveCmd, snapshotCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing stock-client CLI: %s\n", err)
		os.Exit(1)
	}
}
