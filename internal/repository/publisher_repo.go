package repository

import (
	"context"

	"github.com/user/apartment-scraper/internal/entity"
)

// ResultPublisher announces scrape results to downstream consumers.
type ResultPublisher interface {
	Publish(ctx context.Context, runID string, result entity.ScrapeResult) error
}
