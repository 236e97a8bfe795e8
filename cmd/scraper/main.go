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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/apartment-scraper/internal/adapter/jsonfile"
	"github.com/user/apartment-scraper/internal/app"
	"github.com/user/apartment-scraper/pkg/config"
	"github.com/user/apartment-scraper/pkg/logger"
	"github.com/user/apartment-scraper/pkg/metrics"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code: 0 when at least one URL was scraped.
func run() int {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		return 1
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	urls := cfg.URLList()
	if len(urls) == 0 {
		log.Error("No URLs provided. Set the URLS environment variable to a comma-separated list.")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Metrics ---
	m := metrics.New(prometheus.DefaultRegisterer)
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// --- Backends ---
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize", zap.Error(err))
		return 1
	}
	defer a.Close()

	scraper := a.Scraper(cfg, m, jsonfile.NewReportWriter(cfg.OutputPath, log))

	log.Info("Starting apartment scraper", zap.Int("urls", len(urls)), zap.String("fetch_mode", cfg.FetchMode))
	report, err := scraper.Run(ctx, urls)
	if err != nil {
		log.Error("Scrape run failed", zap.Error(err))
		return 1
	}

	if report.ExitCode() != 0 {
		log.Error("No properties were scraped successfully")
	}
	return report.ExitCode()
}

func serveMetrics(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("Serving metrics", zap.String("addr", addr))
	return srv
}
