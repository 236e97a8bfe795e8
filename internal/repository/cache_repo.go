package repository

import (
	"context"
	"time"

	"github.com/user/apartment-scraper/internal/entity"
)

// RecordCache keeps recently scraped properties so a URL is not fetched twice within a TTL.
type RecordCache interface {
	// Get returns the cached record for url, or nil when there is none.
	Get(ctx context.Context, url string) (*entity.PropertyRecord, error)
	// Put caches record under the requested url for ttl. The record's own URL may
	// differ after redirects.
	Put(ctx context.Context, url string, record entity.PropertyRecord, ttl time.Duration) error
}
