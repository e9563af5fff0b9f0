// Package materialcache keeps the board listing in Redis so page loads
// do not each run the full sorted scan. Redis is optional: with no client
// every call goes straight to the repository.
package materialcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bhe-24/pustakamateri/internal/app/system/metrics"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ListKey holds the JSON-encoded listing.
const ListKey = "mading:materials:list"

// DefaultTTL bounds how stale a listing can be when writes bypass the cache.
const DefaultTTL = 60 * time.Second

// Repository is the content store being cached.
type Repository interface {
	List(ctx context.Context) ([]models.Material, error)
	Create(ctx context.Context, m models.Material) (models.Material, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Material, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// Cache is a read-through cache in front of a Repository.
type Cache struct {
	repo Repository
	rdb  *redis.Client
	ttl  time.Duration
	log  *zap.Logger
}

// New wraps repo. rdb may be nil.
func New(repo Repository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{repo: repo, rdb: rdb, ttl: ttl, log: logger}
}

// List serves the listing from Redis when present. Redis errors are
// logged and fall through to the repository.
func (c *Cache) List(ctx context.Context) ([]models.Material, error) {
	if c.rdb == nil {
		return c.repo.List(ctx)
	}

	raw, err := c.rdb.Get(ctx, ListKey).Bytes()
	switch {
	case err == nil:
		var items []models.Material
		jerr := json.Unmarshal(raw, &items)
		if jerr == nil {
			metrics.ListCache.WithLabelValues("hit").Inc()
			return items, nil
		}
		c.log.Warn("discarding undecodable cached listing", zap.Error(jerr))
	case errors.Is(err, redis.Nil):
		metrics.ListCache.WithLabelValues("miss").Inc()
	default:
		metrics.ListCache.WithLabelValues("error").Inc()
		c.log.Warn("list cache read failed", zap.Error(err))
	}

	items, err := c.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if b, jerr := json.Marshal(items); jerr == nil {
		if serr := c.rdb.Set(ctx, ListKey, b, c.ttl).Err(); serr != nil {
			c.log.Warn("list cache write failed", zap.Error(serr))
		}
	}
	return items, nil
}

// Create stores m and drops the cached listing.
func (c *Cache) Create(ctx context.Context, m models.Material) (models.Material, error) {
	out, err := c.repo.Create(ctx, m)
	if err != nil {
		return out, err
	}
	c.invalidate(ctx)
	return out, nil
}

// GetByID is not cached.
func (c *Cache) GetByID(ctx context.Context, id primitive.ObjectID) (models.Material, error) {
	return c.repo.GetByID(ctx, id)
}

// Delete removes the material and drops the cached listing.
func (c *Cache) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	n, err := c.repo.Delete(ctx, id)
	if err != nil {
		return n, err
	}
	c.invalidate(ctx)
	return n, nil
}

func (c *Cache) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, ListKey).Err(); err != nil {
		c.log.Warn("list cache invalidation failed", zap.Error(err))
	}
}
