package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/apartment-scraper/internal/entity"
	"github.com/user/apartment-scraper/pkg/utils"
)

const propertyKeyPrefix = "apartments:property:"

// RecordCacheImpl provides a concrete implementation for the RecordCache interface using Redis.
type RecordCacheImpl struct {
	client *redis.Client
}

// NewRecordCache creates a new instance of RecordCacheImpl.
func NewRecordCache(client *redis.Client) *RecordCacheImpl {
	return &RecordCacheImpl{client: client}
}

// generateKey creates a consistent Redis key for a given URL by hashing it.
func (r *RecordCacheImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", propertyKeyPrefix, utils.HashURL(url))
}

// Get returns nil, nil on a cache miss.
func (r *RecordCacheImpl) Get(ctx context.Context, url string) (*entity.PropertyRecord, error) {
	data, err := r.client.Get(ctx, r.generateKey(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record entity.PropertyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt cache entry for %s: %w", url, err)
	}
	return &record, nil
}

// Put stores the record with an expiry; SET with a TTL is atomic.
func (r *RecordCacheImpl) Put(ctx context.Context, url string, record entity.PropertyRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.generateKey(url), data, ttl).Err()
}
