package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/linejournal/internal/tracker"
	"github.com/roach88/linejournal/internal/watch"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	MetricsAddr string
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Journal changes of the watched directory until interrupted",
		Long: `Watch the configured directory and journal every change of a tracked
file. Runs until interrupted (SIGINT or SIGTERM).

With --metrics-addr, Prometheus metrics are served at /metrics.

Examples:
  linejournal watch
  linejournal watch --watch-dir ./notes --journal-dir ./journals
  linejournal watch --metrics-addr :9090`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

func runWatch(ctx context.Context, opts *WatchOptions, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	e, err := openEnv(opts.RootOptions, cmd)
	if err != nil {
		return f.FailWith(err)
	}
	defer e.close()

	metricsAddr := e.cfg.MetricsAddr
	if opts.MetricsAddr != "" {
		metricsAddr = opts.MetricsAddr
	}

	if err := os.MkdirAll(e.cfg.WatchDir, 0o755); err != nil {
		return f.Fail(ExitCommandError, ErrCodeIO, "failed to create watch directory", err)
	}

	reg := prometheus.NewRegistry()
	tr, err := tracker.New(e.journal, tracker.Options{
		Metrics: tracker.NewMetrics(reg),
		Logger:  e.logger,
	})
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to create tracker", err)
	}

	w, err := watch.New(e.cfg.WatchDir, e.cfg.Matches, e.logger)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeIO, "failed to watch directory", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.Run(gCtx, func(ctx context.Context, ev tracker.Event) error {
			_, err := tr.Handle(ctx, ev)
			return err
		})
	})

	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           metricsHandler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			e.logger.Info("serving metrics", "addr", metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return f.Fail(ExitFailure, ErrCodeIO, "watch stopped", err)
	}
	e.logger.Info("watch stopped")
	return nil
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}
