package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/user/apartment-scraper/internal/adapter/htmlpage"
	"github.com/user/apartment-scraper/internal/entity"
	"github.com/user/apartment-scraper/internal/repository"
)

// fakeFetcher serves canned HTML per URL; URLs without HTML fail with err.
type fakeFetcher struct {
	mu    sync.Mutex
	html  map[string]string
	err   error
	panic bool
	// redirect is appended to the URL the page reports as its final location.
	redirect string
	calls    []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (repository.PageContent, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if f.panic {
		panic("browser crashed")
	}
	html, ok := f.html[url]
	if !ok {
		if f.err != nil {
			return nil, f.err
		}
		return nil, fmt.Errorf("%w: %s", repository.ErrNavigationFailed, url)
	}
	return htmlpage.Parse(url+f.redirect, html)
}

type fakeWriter struct {
	reports []*entity.Report
	err     error
}

func (w *fakeWriter) Write(_ context.Context, r *entity.Report) error {
	w.reports = append(w.reports, r)
	return w.err
}

type fakeRepo struct {
	saved []entity.ScrapeResult
	runs  map[string]bool
	err   error
}

func (r *fakeRepo) Save(_ context.Context, runID string, result entity.ScrapeResult) error {
	if r.runs == nil {
		r.runs = make(map[string]bool)
	}
	r.runs[runID] = true
	r.saved = append(r.saved, result)
	return r.err
}

func (r *fakeRepo) FindByURL(_ context.Context, url string) (*entity.ScrapeResult, error) {
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].URL() == url {
			res := r.saved[i]
			return &res, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeCache struct {
	records map[string]entity.PropertyRecord
	puts    []string
}

func (c *fakeCache) Get(_ context.Context, url string) (*entity.PropertyRecord, error) {
	rec, ok := c.records[url]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (c *fakeCache) Put(_ context.Context, url string, record entity.PropertyRecord, _ time.Duration) error {
	if c.records == nil {
		c.records = make(map[string]entity.PropertyRecord)
	}
	c.records[url] = record
	c.puts = append(c.puts, url)
	return nil
}

type fakePublisher struct {
	published []entity.ScrapeResult
}

func (p *fakePublisher) Publish(_ context.Context, _ string, result entity.ScrapeResult) error {
	p.published = append(p.published, result)
	return fmt.Errorf("broker unavailable")
}

// delayRecorder counts pauses between pages without sleeping.
type delayRecorder struct {
	calls int
}

func (d *delayRecorder) delay(ctx context.Context, _, _ time.Duration) error {
	d.calls++
	return ctx.Err()
}
