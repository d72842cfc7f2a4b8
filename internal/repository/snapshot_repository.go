package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/catalog"
	"catalog-service/internal/metrics"
	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	DefaultSnapshotTTL = 2 * time.Minute
	snapshotKeyPrefix  = "catalog:snapshot"
)

// Snapshot cache results
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheStale = "stale"
	cacheError = "error"
)

// SnapshotRepository caches category snapshots in Redis in front of the
// storefront backend. It implements catalog.CategoryFetcher.
type SnapshotRepository struct {
	source    catalog.CategoryFetcher
	redis     *redis.Client
	ttl       time.Duration
	sequencer *catalog.Sequencer
	logger    *logrus.Entry
}

func NewSnapshotRepository(source catalog.CategoryFetcher, redisClient *redis.Client, ttl time.Duration, logger *logrus.Entry) *SnapshotRepository {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	if logger == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		logger = logrus.NewEntry(silent)
	}
	return &SnapshotRepository{
		source:    source,
		redis:     redisClient,
		ttl:       ttl,
		sequencer: catalog.NewSequencer(),
		logger:    logger.WithField("component", "SnapshotRepository"),
	}
}

func snapshotKey(tenantID, categoryID string) string {
	return fmt.Sprintf("%s:%s:category:%s", snapshotKeyPrefix, tenantID, categoryID)
}

// CategoryByID returns the cached snapshot when present, otherwise fetches
// from the source and caches the result. Only the most recently started
// fetch for a category writes the cache; older results are still returned
// to their caller but never published.
func (r *SnapshotRepository) CategoryByID(ctx context.Context, tenantID, categoryID string) (*models.Category, error) {
	key := snapshotKey(tenantID, categoryID)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, key).Result()
		switch {
		case err == nil:
			var category models.Category
			if err := json.Unmarshal([]byte(val), &category); err == nil {
				metrics.RecordSnapshotCache(cacheHit)
				return &category, nil
			}
			r.logger.WithField("key", key).Warn("Discarding undecodable snapshot")
			metrics.RecordSnapshotCache(cacheError)
		case errors.Is(err, redis.Nil):
			metrics.RecordSnapshotCache(cacheMiss)
		default:
			r.logger.WithError(err).Warn("Snapshot cache read failed, bypassing cache")
			metrics.RecordSnapshotCache(cacheError)
		}
	}

	ticket := r.sequencer.Begin(key)
	defer r.sequencer.Done(key)

	category, err := r.source.CategoryByID(ctx, tenantID, categoryID)
	if err != nil || category == nil {
		return category, err
	}

	if r.redis == nil {
		return category, nil
	}
	data, err := json.Marshal(category)
	if err != nil {
		return category, nil
	}
	published, err := r.sequencer.Publish(key, ticket, func() error {
		return r.redis.Set(ctx, key, data, r.ttl).Err()
	})
	if err != nil {
		r.logger.WithError(err).Warn("Snapshot cache write failed")
	}
	if !published {
		metrics.RecordSnapshotCache(cacheStale)
		r.logger.WithField("key", key).Debug("Superseded fetch, snapshot not cached")
	}
	return category, nil
}

// Invalidate removes the cached snapshot of one category
func (r *SnapshotRepository) Invalidate(ctx context.Context, tenantID, categoryID string) error {
	if r.redis == nil {
		return nil
	}
	if err := r.redis.Del(ctx, snapshotKey(tenantID, categoryID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot: %w", err)
	}
	return nil
}

// InvalidateTenant removes every cached snapshot of a tenant and returns the
// number of keys deleted
func (r *SnapshotRepository) InvalidateTenant(ctx context.Context, tenantID string) (int, error) {
	if r.redis == nil {
		return 0, nil
	}

	pattern := fmt.Sprintf("%s:%s:*", snapshotKeyPrefix, tenantID)
	deleted := 0
	var cursor uint64
	for {
		keys, next, err := r.redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan snapshots: %w", err)
		}
		if len(keys) > 0 {
			n, err := r.redis.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete snapshots: %w", err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}
