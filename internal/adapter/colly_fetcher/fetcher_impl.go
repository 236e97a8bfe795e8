// Package colly_fetcher loads pages over plain HTTP, without running scripts.
// It suits sites that render listings server-side.
package colly_fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/user/apartment-scraper/internal/adapter/htmlpage"
	"github.com/user/apartment-scraper/internal/repository"
)

type Options struct {
	UserAgent       string
	Headers         map[string]string
	PageLoadTimeout time.Duration
}

type CollyFetcher struct {
	collector *colly.Collector
	headers   map[string]string
	logger    *zap.Logger
}

func NewCollyFetcher(opts Options, logger *zap.Logger) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(opts.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(opts.PageLoadTimeout)

	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		// net/http only decompresses transparently when it negotiates encoding itself.
		if strings.EqualFold(k, "Accept-Encoding") {
			continue
		}
		headers[k] = v
	}

	return &CollyFetcher{collector: c, headers: headers, logger: logger}
}

func (f *CollyFetcher) Fetch(ctx context.Context, url string) (repository.PageContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrNavigationFailed, url, err)
	}

	c := f.collector.Clone()
	// Requests are bound to ctx so a shutdown aborts an in-flight fetch.
	c.Context = ctx

	var (
		body     []byte
		location string
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		for k, v := range f.headers {
			r.Headers.Set(k, v)
		}
	})

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		location = r.Request.URL.String()
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = classifyError(url, r.StatusCode, err)
	})

	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = classifyError(url, 0, err)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	f.logger.Debug("Page fetched", zap.String("url", url), zap.Int("bytes", len(body)))
	if location == "" {
		location = url
	}
	return htmlpage.Parse(location, string(body))
}

func classifyError(url string, status int, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", repository.ErrCrawlTimeout, url, err)
	}
	if status != 0 {
		return fmt.Errorf("%w: %s: status %d: %v", repository.ErrNavigationFailed, url, status, err)
	}
	return fmt.Errorf("%w: %s: %v", repository.ErrNavigationFailed, url, err)
}
