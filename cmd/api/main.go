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
	"go.uber.org/zap"

	"github.com/user/apartment-scraper/internal/app"
	"github.com/user/apartment-scraper/internal/delivery/http/handler"
	"github.com/user/apartment-scraper/internal/delivery/http/router"
	"github.com/user/apartment-scraper/internal/usecase"
	"github.com/user/apartment-scraper/pkg/config"
	"github.com/user/apartment-scraper/pkg/logger"
	"github.com/user/apartment-scraper/pkg/metrics"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code. Returning instead of exiting lets the
// deferred cleanup close the browser and backend connections.
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

	// --- Metrics ---
	m := metrics.New(prometheus.DefaultRegisterer)

	// --- Backends ---
	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to initialize", zap.Error(err))
		return 1
	}
	defer a.Close()

	// --- Use Cases ---
	scraper := a.Scraper(cfg, m, nil)
	lookup := usecase.NewPropertyLookup(a.PropertyRepo)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(scraper, lookup, a.HealthChecks, log)
	httpRouter := router.New(apiHandler, log, m, prometheus.DefaultGatherer)

	server := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     httpRouter,
		ReadTimeout: 10 * time.Second,
		// A scrape request holds the connection for the whole run.
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.ServerPort))
		serveErr <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	if err := waitForShutdown(quit, serveErr); err != nil {
		log.Error("Could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
		return 1
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exiting")
	return 0
}

// waitForShutdown blocks until a signal arrives or the listener stops. It
// returns the listener's error unless the server was closed normally.
func waitForShutdown(quit <-chan os.Signal, serveErr <-chan error) error {
	select {
	case <-quit:
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
