package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-dashboard/internal/dashboard/config"
	"golang-stock-dashboard/internal/dashboard/service"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	snapshotTimeout  time.Duration
	snapshotTrending int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [symbol]",
	Short: "Loads one symbol and the trending feed, prints the result and exits",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().DurationVar(&snapshotTimeout, "timeout", 30*time.Second, "Maximum time to wait for the backend")
	snapshotCmd.Flags().IntVar(&snapshotTrending, "trending", 5, "Number of trending stocks to print")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if len(args) == 1 {
		cfg.Session.DefaultSymbol = args[0]
	}
	_, appLogger, session := build(cfg, false)
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	subscriber, states := service.LatestState()
	unsubscribe := session.Store.Subscribe(subscriber)
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Run(gctx)
	})

	var final service.State
	g.Go(func() error {
		defer cancel()
		for {
			select {
			case st := <-states:
				if settled(st) {
					final = st
					return nil
				}
			case <-gctx.Done():
				return fmt.Errorf("waiting for session: %w", gctx.Err())
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	printSnapshot(cmd.OutOrStdout(), final, snapshotTrending)
	return nil
}

// settled reports whether the initial series and trending fetches have both completed.
func settled(st service.State) bool {
	if st.Symbol.IsZero() || st.Loading.Series || st.Loading.Trending {
		return false
	}
	return st.SeriesStatus == service.SeriesReady || st.SeriesStatus == service.SeriesFailed
}

func printSnapshot(w io.Writer, st service.State, trending int) {
	fmt.Fprintf(w, "Symbol:   %s\n", st.Symbol)
	if st.Series != nil {
		fmt.Fprintf(w, "Price:    %.2f\n", st.Metrics.CurrentPrice)
		fmt.Fprintf(w, "Change:   %+.2f (%+.2f%%)\n", st.Metrics.PriceChange, st.Metrics.PriceChangePercent)
		fmt.Fprintf(w, "Points:   %d\n", st.Series.Len())
	} else {
		fmt.Fprintln(w, "Price:    unavailable")
	}

	if len(st.Trending) > 0 && trending > 0 {
		fmt.Fprintln(w, "\nTrending:")
		for i, t := range st.Trending {
			if i >= trending {
				break
			}
			fmt.Fprintf(w, "  %-12s %10.2f %+8.2f%%  %s\n", t.Symbol, t.Price, t.ChangePercent, t.Name)
		}
	}

	if len(st.Notices) > 0 {
		fmt.Fprintln(w, "\nNotices:")
		for _, n := range st.Notices {
			fmt.Fprintf(w, "  [%s] %s\n", n.Kind, n.Message)
		}
	}
}
