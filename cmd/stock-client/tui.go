package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang-stock-dashboard/internal/dashboard/delivery/tui"
	"golang-stock-dashboard/internal/dashboard/service"
	"golang-stock-dashboard/pkg/logger"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Starts the interactive terminal dashboard",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, appLogger, session := bootstrap(true)
	defer func() { _ = appLogger.Sync() }()

	subscriber, states := service.LatestState()
	unsubscribe := session.Store.Subscribe(subscriber)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return session.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		p := tea.NewProgram(tui.New(session, states), tea.WithAltScreen(), tea.WithContext(gctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			appLogger.Error("Terminal UI failed", logger.ErrorField(err))
			return err
		}
		return nil
	})

	return g.Wait()
}
