package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daybrief/internal/metrics"
	"daybrief/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep daily briefings warm and expose metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		interval, err := time.ParseDuration(cfg.Serve.Interval)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.Serve.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("metrics listening", "addr", cfg.Serve.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()

		warmer := &worker.ReportWarmer{
			Reports:    a.reports,
			Notifier:   a.platform.Notifier,
			Interval:   interval,
			Location:   a.loc,
			ArchiveDir: cfg.Report.ArchiveDir,
			Order:      cfg.Report.MorningCategories,
		}
		slog.Info("starting report warmer", "interval", interval, "platform", a.platform.Kind)
		return worker.NewManager(warmer).Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
