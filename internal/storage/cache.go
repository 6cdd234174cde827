package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no report is cached under the given ID.
var ErrCacheMiss = errors.New("report not found in cache")

const reportKeyPrefix = "data-validation:report:"

// ReportCache stores rendered quality reports in Redis with a TTL.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a report cache.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{
		client: client,
		ttl:    ttl,
	}
}

// Store caches a rendered report under its ID.
func (c *ReportCache) Store(ctx context.Context, reportID string, report interface{}) error {
	data, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}
	if err := c.client.Set(ctx, reportKeyPrefix+reportID, data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to cache report")
	}
	return nil
}

// Get retrieves a cached report. The raw JSON is returned so handlers can
// pass it through without re-encoding.
func (c *ReportCache) Get(ctx context.Context, reportID string) (json.RawMessage, error) {
	data, err := c.client.Get(ctx, reportKeyPrefix+reportID).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cached report")
	}
	return data, nil
}

// Delete evicts a cached report.
func (c *ReportCache) Delete(ctx context.Context, reportID string) error {
	return c.client.Del(ctx, reportKeyPrefix+reportID).Err()
}

// Health checks the Redis connection.
func (c *ReportCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
