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

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/danpilch/diskmon/pkg/config"
	"github.com/danpilch/diskmon/pkg/debug"
	"github.com/danpilch/diskmon/pkg/metrics"
	"github.com/danpilch/diskmon/pkg/output"
	"github.com/danpilch/diskmon/pkg/use"
)

func newCheckCommand() *cobra.Command {
	var (
		score  bool
		timing bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Discover disks, sample them once and report capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			timed := debug.NewTimedCollector(e.disks)
			checker := use.NewChecker(e.cfg.Thresholds, e.logger)
			checks := checker.RunAll(ctx, []use.Collector{timed})

			f := output.NewFormatter(e.cfg.Format, cmd.OutOrStdout())
			f.SetShowScore(score)
			if err := f.Render(checks); err != nil {
				return err
			}
			if timing {
				debug.TimingReport(cmd.ErrOrStderr(), []debug.CollectorTiming{timed.Timing()})
			}

			if code := use.ExitCode(checks); code != 0 {
				return exitError(code)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&score, "score", false, "show health score")
	cmd.Flags().BoolVar(&timing, "timing", false, "print collector timing to stderr")
	return cmd
}

func newWatchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-check disks on an interval with trend sparklines",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, intervalOverride(cmd, &interval))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tracker := output.NewSparklineTracker(30)
			f := output.NewFormatter(e.cfg.Format, cmd.OutOrStdout())
			f.SetSparklineTracker(tracker)
			f.SetShowScore(true)
			checker := use.NewChecker(e.cfg.Thresholds, e.logger)

			previous := map[string]bool{}
			ticker := time.NewTicker(e.cfg.Interval)
			defer ticker.Stop()

			for {
				checks := checker.RunAll(ctx, []use.Collector{e.disks})

				current := make(map[string]bool, len(checks))
				for _, c := range checks {
					current[c.Resource] = true
				}
				for res := range previous {
					if !current[res] {
						tracker.Forget(res)
					}
				}
				previous = current

				if err := f.Render(checks); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())

				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "time between checks")
	return cmd
}

func newServeCommand() *cobra.Command {
	var (
		interval time.Duration
		listen   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sample disks on an interval and expose Prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, func(cfg *config.Config) error {
				if cmd.Flags().Changed("listen") {
					cfg.ListenAddress = listen
				}
				return intervalOverride(cmd, &interval)(cfg)
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			promReg := prometheus.NewRegistry()
			promReg.MustRegister(
				metrics.NewExporter(e.registry),
				collectors.NewGoCollector(),
			)

			router := mux.NewRouter()
			router.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
			router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok\n"))
			}).Methods(http.MethodGet)

			server := &http.Server{
				Addr:              e.cfg.ListenAddress,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				e.logger.WithField("addr", e.cfg.ListenAddress).Info("Serving metrics")
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			refresh := func() {
				if err := e.registry.Discover(ctx); err != nil {
					e.logger.WithError(err).Warn("Disk discovery failed")
					return
				}
				if err := e.registry.Sample(ctx); err != nil {
					e.logger.WithError(err).Warn("Disk sampling failed")
				}
			}
			refresh()

			ticker := time.NewTicker(e.cfg.Interval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					refresh()
				case err := <-errCh:
					return err
				case <-ctx.Done():
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return server.Shutdown(shutdownCtx)
				}
			}
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "time between samples")
	cmd.Flags().StringVar(&listen, "listen", "", "address for the metrics endpoint")
	return cmd
}

func intervalOverride(cmd *cobra.Command, interval *time.Duration) func(*config.Config) error {
	return func(cfg *config.Config) error {
		if cmd.Flags().Changed("interval") {
			cfg.Interval = *interval
		}
		return nil
	}
}
