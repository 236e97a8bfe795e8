package repository

import (
	"context"

	"github.com/user/apartment-scraper/internal/entity"
)

// PropertyRepository defines the interface for persisting scrape results.
type PropertyRepository interface {
	// Save stores the result of one URL. A later result for the same URL replaces it.
	Save(ctx context.Context, runID string, result entity.ScrapeResult) error
	// FindByURL retrieves the latest stored result for url, or ErrNotFound.
	FindByURL(ctx context.Context, url string) (*entity.ScrapeResult, error)
}
