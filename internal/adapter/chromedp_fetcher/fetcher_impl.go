package chromedp_fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/apartment-scraper/internal/adapter/htmlpage"
	"github.com/user/apartment-scraper/internal/repository"
)

// Options configures the headless browser. None of it affects extraction.
type Options struct {
	Headless        bool
	UserAgent       string
	ViewportWidth   int
	ViewportHeight  int
	Headers         map[string]string
	PageLoadTimeout time.Duration
	// SettleDelay is waited after the load event so late scripts can render.
	SettleDelay time.Duration
}

// ChromedpFetcher drives one Chrome instance, opening a fresh tab per page.
type ChromedpFetcher struct {
	opts          Options
	headers       network.Headers
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	logger        *zap.Logger
}

// NewChromedpFetcher launches the browser. A launch failure is returned here
// rather than on the first Fetch.
func NewChromedpFetcher(opts Options, logger *zap.Logger) (*ChromedpFetcher, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-accelerated-2d-canvas", true),
		chromedp.Flag("no-zygote", true),
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	sugar := logger.Sugar()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	headers := make(network.Headers, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}

	logger.Info("Browser ready", zap.Bool("headless", opts.Headless))
	return &ChromedpFetcher{
		opts:          opts,
		headers:       headers,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		logger:        logger,
	}, nil
}

// Fetch navigates to url in a new tab and snapshots the rendered document.
// Navigation has PageLoadTimeout to itself; the settle delay and the snapshot
// run afterwards under their own budget.
func (f *ChromedpFetcher) Fetch(ctx context.Context, url string) (repository.PageContent, error) {
	tabCtx, tabCancel := chromedp.NewContext(f.browserCtx)
	defer tabCancel()

	// Allocate the tab on its own context so expiring phase deadlines do not close it.
	if err := chromedp.Run(tabCtx); err != nil {
		return nil, fmt.Errorf("%w: %s: could not open tab: %v", repository.ErrNavigationFailed, url, err)
	}

	navCtx, navCancel := withBudget(tabCtx, ctx, f.opts.PageLoadTimeout)
	defer navCancel()

	start := time.Now()
	err := chromedp.Run(navCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(f.headers),
		emulation.SetDeviceMetricsOverride(int64(f.opts.ViewportWidth), int64(f.opts.ViewportHeight), 1, false),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return nil, classifyNavigationError(url, err)
	}

	snapCtx, snapCancel := withBudget(tabCtx, ctx, f.opts.SettleDelay+snapshotTimeout)
	defer snapCancel()

	var html, text, title, location string
	err = chromedp.Run(snapCtx,
		chromedp.Sleep(f.opts.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Evaluate(`document.body ? document.body.innerText : ''`, &text),
		chromedp.Title(&title),
		chromedp.Location(&location),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s: %v", repository.ErrCrawlTimeout, url, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrExtractionFailed, url, err)
	}

	f.logger.Debug("Page loaded", zap.String("url", url), zap.String("location", location), zap.Duration("elapsed", time.Since(start)))
	if location == "" {
		location = url
	}
	return htmlpage.Parse(location, html, htmlpage.WithVisibleText(text), htmlpage.WithTitle(title))
}

// Close shuts down the browser.
func (f *ChromedpFetcher) Close() {
	f.logger.Info("Closing browser")
	f.browserCancel()
	f.allocCancel()
}

// snapshotTimeout bounds reading the document once the settle delay has passed.
const snapshotTimeout = 30 * time.Second

// withBudget derives a context from parent that ends after budget or as soon as ctx is done.
func withBudget(parent, ctx context.Context, budget time.Duration) (context.Context, context.CancelFunc) {
	c, cancel := context.WithTimeout(parent, budget)
	stop := context.AfterFunc(ctx, cancel)
	return c, func() {
		stop()
		cancel()
	}
}

func classifyNavigationError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", repository.ErrCrawlTimeout, url, err)
	}
	return fmt.Errorf("%w: %s: %v", repository.ErrNavigationFailed, url, err)
}
