// Package app wires configuration into the adapters and use cases shared by
// the scraper CLI and the API server.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/apartment-scraper/internal/adapter/chromedp_fetcher"
	"github.com/user/apartment-scraper/internal/adapter/colly_fetcher"
	"github.com/user/apartment-scraper/internal/adapter/postgres"
	"github.com/user/apartment-scraper/internal/adapter/rabbitmq"
	redis_adapter "github.com/user/apartment-scraper/internal/adapter/redis"
	"github.com/user/apartment-scraper/internal/extractor"
	"github.com/user/apartment-scraper/internal/repository"
	"github.com/user/apartment-scraper/internal/usecase"
	"github.com/user/apartment-scraper/pkg/config"
	"github.com/user/apartment-scraper/pkg/metrics"
)

// App holds the wired components and the resources they own.
type App struct {
	Fetcher      repository.PageFetcher
	PropertyRepo repository.PropertyRepository
	Cache        repository.RecordCache
	Publisher    repository.ResultPublisher
	// HealthChecks pings each connected backend by name.
	HealthChecks map[string]func(ctx context.Context) error

	closers []func()
	logger  *zap.Logger
}

// New connects every configured backend. Backends whose address is empty are
// left nil and the use cases skip them.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{
		HealthChecks: make(map[string]func(ctx context.Context) error),
		logger:       logger,
	}

	fetcher, err := a.newFetcher(cfg)
	if err != nil {
		return nil, err
	}
	a.Fetcher = fetcher

	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		a.closers = append(a.closers, dbpool.Close)

		repo := postgres.NewPropertyRepo(dbpool)
		if err := repo.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("unable to prepare database schema: %w", err)
		}
		a.PropertyRepo = repo
		a.HealthChecks["postgres"] = dbpool.Ping
		logger.Info("PostgreSQL connection pool established")
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("unable to connect to Redis: %w", err)
		}
		a.Cache = redis_adapter.NewRecordCache(rdb)
		a.HealthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Info("Redis connection established")
	}

	if cfg.AMQPURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = pub.Close() })
		a.Publisher = pub
		logger.Info("RabbitMQ publisher ready", zap.String("exchange", cfg.AMQPExchange))
	}

	return a, nil
}

func (a *App) newFetcher(cfg *config.Config) (repository.PageFetcher, error) {
	if cfg.FetchMode == config.FetchModeStatic {
		a.logger.Info("Using static HTTP fetcher")
		return colly_fetcher.NewCollyFetcher(colly_fetcher.Options{
			UserAgent:       cfg.UserAgent,
			Headers:         cfg.RequestHeaders(),
			PageLoadTimeout: cfg.PageLoadTimeout,
		}, a.logger), nil
	}

	f, err := chromedp_fetcher.NewChromedpFetcher(chromedp_fetcher.Options{
		Headless:        cfg.Headless,
		UserAgent:       cfg.UserAgent,
		ViewportWidth:   cfg.ViewportWidth,
		ViewportHeight:  cfg.ViewportHeight,
		Headers:         cfg.RequestHeaders(),
		PageLoadTimeout: cfg.PageLoadTimeout,
		SettleDelay:     cfg.SettleDelay,
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	a.closers = append(a.closers, f.Close)
	a.logger.Info("Browser launched", zap.Bool("headless", cfg.Headless))
	return f, nil
}

// Scraper builds the orchestrator over the wired components. reportWriter may be nil.
func (a *App) Scraper(cfg *config.Config, m *metrics.Metrics, reportWriter repository.ReportWriter) usecase.Scraper {
	opts := []usecase.Option{usecase.WithMetrics(m)}
	if reportWriter != nil {
		opts = append(opts, usecase.WithReportWriter(reportWriter))
	}
	if a.PropertyRepo != nil {
		opts = append(opts, usecase.WithPropertyRepository(a.PropertyRepo))
	}
	if a.Cache != nil {
		opts = append(opts, usecase.WithRecordCache(a.Cache))
	}
	if a.Publisher != nil {
		opts = append(opts, usecase.WithPublisher(a.Publisher))
	}

	return usecase.NewScrapeUseCase(
		a.Fetcher,
		extractor.New(a.logger),
		a.logger,
		usecase.Options{
			MinDelay:   cfg.MinDelay,
			MaxDelay:   cfg.MaxDelay,
			MaxRetries: cfg.MaxRetries,
			CacheTTL:   cfg.CacheTTL,
		},
		opts...,
	)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
