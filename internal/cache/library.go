package cache

import (
	"context"
	"fmt"
	"time"

	"ptrainer/backend/internal/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultLibraryTTL bounds how long a library entry lives without an update event.
const DefaultLibraryTTL = 7 * 24 * time.Hour

// ItemType names a kind of shared library item.
type ItemType string

const (
	ItemExercise ItemType = "exercise"
	ItemFood     ItemType = "food"
)

// LibraryCache caches processed exercise and food reference data. Entries are
// shared by every membership and are only invalidated by updates to the item itself.
type LibraryCache struct {
	store   Store
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewLibraryCache(store Store, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *LibraryCache {
	if ttl <= 0 {
		ttl = DefaultLibraryTTL
	}
	return &LibraryCache{store: store, ttl: ttl, logger: logger, metrics: m}
}

// LibraryKey derives the store key of a library item. Item types never contain
// ':' and ids are hex, so distinct (type, id) pairs never collide.
func LibraryKey(itemType ItemType, id primitive.ObjectID) string {
	return fmt.Sprintf("library:%s:%s", itemType, id.Hex())
}

// Get decodes the cached item into out. Store or decode failures count as a miss.
func (c *LibraryCache) Get(ctx context.Context, itemType ItemType, id primitive.ObjectID, out any) bool {
	key := LibraryKey(itemType, id)
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("library cache read failed", zap.String("key", key), zap.Error(err))
		c.metrics.CacheLookup("library", "error")
		return false
	}
	if !ok {
		c.metrics.CacheLookup("library", "miss")
		return false
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		c.logger.Warn("library cache entry undecodable", zap.String("key", key), zap.Error(err))
		c.metrics.CacheLookup("library", "error")
		return false
	}
	c.metrics.CacheLookup("library", "hit")
	return true
}

// Contains reports whether an entry is currently cached for the item.
func (c *LibraryCache) Contains(ctx context.Context, itemType ItemType, id primitive.ObjectID) bool {
	_, ok, err := c.store.Get(ctx, LibraryKey(itemType, id))
	return err == nil && ok
}

// Put stores v for the item. Failures are logged; the next read simply misses.
func (c *LibraryCache) Put(ctx context.Context, itemType ItemType, id primitive.ObjectID, v any) {
	key := LibraryKey(itemType, id)
	raw, err := bson.Marshal(v)
	if err != nil {
		c.logger.Warn("library cache encode failed", zap.String("key", key), zap.Error(err))
		c.metrics.CacheWrite("library", "skipped")
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("library cache write failed", zap.String("key", key), zap.Error(err))
		c.metrics.CacheWrite("library", "skipped")
		return
	}
	c.metrics.CacheWrite("library", "stored")
}

// Invalidate drops the item's entry. Invalidating an absent entry is a no-op.
func (c *LibraryCache) Invalidate(ctx context.Context, itemType ItemType, id primitive.ObjectID) error {
	if err := c.store.Delete(ctx, LibraryKey(itemType, id)); err != nil {
		return err
	}
	c.metrics.CacheInvalidation("library")
	return nil
}
