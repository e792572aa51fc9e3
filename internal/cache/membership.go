package cache

import (
	"context"
	"time"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultMembershipTTL bounds staleness when an invalidation event is missed.
const DefaultMembershipTTL = 24 * time.Hour

// Versioner computes the current version token of a membership.
type Versioner interface {
	Compute(ctx context.Context, membershipID primitive.ObjectID) (Token, error)
}

// MembershipCache stores assembled membership aggregates next to the version
// token they were built under. An entry is served only while its token equals
// the freshly computed one.
type MembershipCache struct {
	store   Store
	oracle  Versioner
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewMembershipCache(store Store, oracle Versioner, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *MembershipCache {
	if ttl <= 0 {
		ttl = DefaultMembershipTTL
	}
	return &MembershipCache{store: store, oracle: oracle, ttl: ttl, logger: logger, metrics: m}
}

func membershipDataKey(id primitive.ObjectID) string {
	return "membership_data:" + id.Hex()
}

func membershipVersionKey(id primitive.ObjectID) string {
	return "plans_version:" + id.Hex()
}

// GetCached returns the cached aggregate when its stored token matches the
// current one. Missing, stale and unreadable entries are all misses; stale
// entries are left for the next SetCached to overwrite.
func (c *MembershipCache) GetCached(ctx context.Context, membershipID primitive.ObjectID) (*domain.Aggregate, bool) {
	log := c.logger.With(zap.String("membership", membershipID.Hex()))

	payload, ok, err := c.store.Get(ctx, membershipDataKey(membershipID))
	if err != nil || !ok {
		if err != nil {
			log.Warn("membership cache read failed", zap.Error(err))
		}
		c.metrics.CacheLookup("membership", "miss")
		return nil, false
	}
	stored, ok, err := c.store.Get(ctx, membershipVersionKey(membershipID))
	if err != nil || !ok {
		if err != nil {
			log.Warn("membership version read failed", zap.Error(err))
		}
		c.metrics.CacheLookup("membership", "miss")
		return nil, false
	}

	current, err := c.oracle.Compute(ctx, membershipID)
	if err != nil {
		log.Debug("membership version unavailable on read", zap.Error(err))
		c.metrics.CacheLookup("membership", "miss")
		return nil, false
	}
	if string(stored) != string(current) {
		c.metrics.CacheLookup("membership", "stale")
		return nil, false
	}

	var aggregate domain.Aggregate
	if err := bson.Unmarshal(payload, &aggregate); err != nil {
		log.Warn("membership cache entry undecodable", zap.Error(err))
		c.metrics.CacheLookup("membership", "miss")
		return nil, false
	}
	c.metrics.CacheLookup("membership", "hit")
	return &aggregate, true
}

// SetCached stores the aggregate under the current token. When the token cannot
// be computed, or the store rejects the write, nothing is cached and the next
// read misses again.
func (c *MembershipCache) SetCached(ctx context.Context, membershipID primitive.ObjectID, aggregate *domain.Aggregate) {
	log := c.logger.With(zap.String("membership", membershipID.Hex()))

	token, err := c.oracle.Compute(ctx, membershipID)
	if err != nil {
		log.Warn("skipping membership cache write", zap.Error(err))
		c.metrics.CacheWrite("membership", "skipped")
		return
	}
	payload, err := bson.Marshal(aggregate)
	if err != nil {
		log.Warn("membership aggregate encode failed", zap.Error(err))
		c.metrics.CacheWrite("membership", "skipped")
		return
	}
	if err := c.store.Set(ctx, membershipDataKey(membershipID), payload, c.ttl); err != nil {
		log.Warn("membership cache write failed", zap.Error(err))
		c.metrics.CacheWrite("membership", "skipped")
		return
	}
	if err := c.store.Set(ctx, membershipVersionKey(membershipID), []byte(token), c.ttl); err != nil {
		// Without its token the payload can never be served; drop it.
		_ = c.store.Delete(ctx, membershipDataKey(membershipID))
		log.Warn("membership version write failed", zap.Error(err))
		c.metrics.CacheWrite("membership", "skipped")
		return
	}
	c.metrics.CacheWrite("membership", "stored")
}

// Invalidate deletes the payload and version keys of the membership. It is idempotent.
func (c *MembershipCache) Invalidate(ctx context.Context, membershipID primitive.ObjectID) error {
	if err := c.store.Delete(ctx, membershipDataKey(membershipID), membershipVersionKey(membershipID)); err != nil {
		return err
	}
	c.metrics.CacheInvalidation("membership")
	return nil
}
