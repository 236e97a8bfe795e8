package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/apartment-scraper/internal/entity"
	"github.com/user/apartment-scraper/internal/extractor"
	"github.com/user/apartment-scraper/internal/repository"
	"github.com/user/apartment-scraper/pkg/metrics"
	"github.com/user/apartment-scraper/pkg/utils"
)

var ErrNoURLs = errors.New("no URLs provided")

// Scraper defines the interface for the scraping process.
type Scraper interface {
	// Run scrapes urls one after another and returns one result per URL.
	Run(ctx context.Context, urls []string) (*entity.Report, error)
}

// Options tunes pacing and caching. The zero value means no delay, a single
// attempt per page and no caching.
type Options struct {
	MinDelay   time.Duration
	MaxDelay   time.Duration
	MaxRetries int
	CacheTTL   time.Duration
}

type Option func(*scrapeUseCase)

func WithReportWriter(w repository.ReportWriter) Option {
	return func(uc *scrapeUseCase) { uc.reportWriter = w }
}

func WithPropertyRepository(r repository.PropertyRepository) Option {
	return func(uc *scrapeUseCase) { uc.propertyRepo = r }
}

func WithRecordCache(c repository.RecordCache) Option {
	return func(uc *scrapeUseCase) { uc.cache = c }
}

func WithPublisher(p repository.ResultPublisher) Option {
	return func(uc *scrapeUseCase) { uc.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *scrapeUseCase) { uc.metrics = m }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(uc *scrapeUseCase) { uc.now = now }
}

// WithDelay replaces the randomized pause between pages, for tests.
func WithDelay(delay func(ctx context.Context, min, max time.Duration) error) Option {
	return func(uc *scrapeUseCase) { uc.delay = delay }
}

type scrapeUseCase struct {
	fetcher   repository.PageFetcher
	extractor *extractor.Extractor
	logger    *zap.Logger
	opts      Options

	reportWriter repository.ReportWriter
	propertyRepo repository.PropertyRepository
	cache        repository.RecordCache
	publisher    repository.ResultPublisher
	metrics      *metrics.Metrics

	now   func() time.Time
	delay func(ctx context.Context, min, max time.Duration) error

	// One run at a time: the fetcher drives a single browser.
	mu sync.Mutex
}

// NewScrapeUseCase creates a new instance of the scrape use case.
func NewScrapeUseCase(
	fetcher repository.PageFetcher,
	ext *extractor.Extractor,
	logger *zap.Logger,
	opts Options,
	options ...Option,
) Scraper {
	uc := &scrapeUseCase{
		fetcher:   fetcher,
		extractor: ext,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
		delay:     utils.RandomDelay,
	}
	for _, o := range options {
		o(uc)
	}
	return uc
}

// Run processes urls sequentially. Per-URL failures become ErrorRecords and never
// abort the run; cancelling ctx turns the remaining URLs into failures quickly.
// The report is written (when a writer is configured) before it is returned.
func (uc *scrapeUseCase) Run(ctx context.Context, urls []string) (*entity.Report, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	runID := uuid.NewString()
	log := uc.logger.With(zap.String("run_id", runID))
	log.Info("Starting scrape", zap.Int("urls", len(urls)))

	results := make([]entity.ScrapeResult, 0, len(urls))
	for i, u := range urls {
		log.Info("Processing URL", zap.Int("index", i+1), zap.Int("total", len(urls)), zap.String("url", u))
		results = append(results, uc.scrapeURL(ctx, log, runID, u))

		if i < len(urls)-1 && ctx.Err() == nil {
			if err := uc.delay(ctx, uc.opts.MinDelay, uc.opts.MaxDelay); err != nil {
				log.Warn("Delay between requests interrupted", zap.Error(err))
			}
		}
	}

	report := entity.NewReport(results, uc.now())
	if uc.reportWriter != nil {
		if err := uc.reportWriter.Write(ctx, report); err != nil {
			return report, fmt.Errorf("failed to write report: %w", err)
		}
	}

	log.Info("Scraping complete",
		zap.Int("successful", report.Metadata.SuccessfulScrapes),
		zap.Int("failed", report.Metadata.FailedScrapes),
	)
	return report, nil
}

// scrapeURL always returns exactly one result for url.
func (uc *scrapeUseCase) scrapeURL(ctx context.Context, log *zap.Logger, runID, url string) entity.ScrapeResult {
	start := time.Now()

	if cached := uc.cached(ctx, log, url); cached != nil {
		log.Info("Served from cache", zap.String("url", url), zap.String("name", cached.Name))
		if uc.metrics != nil {
			uc.metrics.ScrapesTotal.WithLabelValues("cached", "").Inc()
			uc.metrics.AmenitiesFound.Observe(float64(cached.TotalAmenities))
		}
		result := entity.Succeeded(*cached)
		uc.persist(ctx, log, runID, result)
		return result
	}

	record, err := uc.fetchAndExtract(ctx, url)
	duration := time.Since(start)
	if uc.metrics != nil {
		uc.metrics.ScrapeDuration.WithLabelValues(utils.Domain(url)).Observe(duration.Seconds())
	}

	var result entity.ScrapeResult
	if err != nil {
		log.Error("Failed to scrape", zap.String("url", url), zap.Error(err))
		if uc.metrics != nil {
			uc.metrics.ScrapesTotal.WithLabelValues("failure", ErrorType(err)).Inc()
		}
		result = entity.Failed(extractor.NewErrorRecord(url, err, uc.now()))
	} else {
		log.Info("Successfully scraped",
			zap.String("name", record.Name),
			zap.Int("amenities", record.TotalAmenities),
			zap.Int64("duration_ms", duration.Milliseconds()),
		)
		if uc.metrics != nil {
			uc.metrics.ScrapesTotal.WithLabelValues("success", "").Inc()
			uc.metrics.AmenitiesFound.Observe(float64(record.TotalAmenities))
		}
		if uc.cache != nil && uc.opts.CacheTTL > 0 {
			if err := uc.cache.Put(ctx, url, record, uc.opts.CacheTTL); err != nil {
				log.Warn("Failed to cache record", zap.String("url", url), zap.Error(err))
			}
		}
		result = entity.Succeeded(record)
	}

	uc.persist(ctx, log, runID, result)
	return result
}

func (uc *scrapeUseCase) fetchAndExtract(ctx context.Context, url string) (record entity.PropertyRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: unexpected panic: %v", repository.ErrExtractionFailed, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return entity.PropertyRecord{}, fmt.Errorf("%w: %s: %v", repository.ErrNavigationFailed, url, err)
	}

	var page repository.PageContent
	err = utils.Retry(ctx, uc.opts.MaxRetries, uc.logger, func() error {
		var fetchErr error
		page, fetchErr = uc.fetcher.Fetch(ctx, url)
		return fetchErr
	})
	if err != nil {
		return entity.PropertyRecord{}, err
	}

	return uc.extractor.Extract(page, uc.now())
}

func (uc *scrapeUseCase) cached(ctx context.Context, log *zap.Logger, url string) *entity.PropertyRecord {
	if uc.cache == nil || uc.opts.CacheTTL <= 0 {
		return nil
	}
	record, err := uc.cache.Get(ctx, url)
	if err != nil {
		// Not critical: fall through to a live scrape.
		log.Warn("Failed to read record cache", zap.String("url", url), zap.Error(err))
		return nil
	}
	return record
}

// persist hands the result to the optional sinks. Sink failures are logged only.
func (uc *scrapeUseCase) persist(ctx context.Context, log *zap.Logger, runID string, result entity.ScrapeResult) {
	if uc.propertyRepo != nil {
		if err := uc.propertyRepo.Save(ctx, runID, result); err != nil {
			log.Warn("Failed to store result", zap.String("url", result.URL()), zap.Error(err))
		}
	}
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, runID, result); err != nil {
			log.Warn("Failed to publish result", zap.String("url", result.URL()), zap.Error(err))
		}
	}
}

// ErrorType maps an error to the error_type metric label.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, repository.ErrCrawlTimeout):
		return "timeout"
	case errors.Is(err, repository.ErrNavigationFailed):
		return "navigation"
	case errors.Is(err, repository.ErrExtractionFailed):
		return "extraction"
	}
	return "unknown"
}
