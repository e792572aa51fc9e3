package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type failingOracle struct{}

func (failingOracle) Compute(context.Context, primitive.ObjectID) (Token, error) {
	return "", ErrVersionUnavailable
}

type failingStore struct {
	Store
	failSetKey string
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == s.failSetKey {
		return errors.New("store unavailable")
	}
	return s.Store.Set(ctx, key, value, ttl)
}

func TestMembershipCache_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewMembershipCache(NewMemoryStore(ctx, 0), f.oracle, 0, zap.NewNop(), nil)

	_, ok := c.GetCached(ctx, f.membership.ID)
	assert.False(t, ok)

	want := sampleAggregate(f.membership.ID)
	c.SetCached(ctx, f.membership.ID, want)

	got, ok := c.GetCached(ctx, f.membership.ID)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestMembershipCache_MutationMakesEntryStale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewMembershipCache(NewMemoryStore(ctx, 0), f.oracle, 0, zap.NewNop(), nil)

	c.SetCached(ctx, f.membership.ID, sampleAggregate(f.membership.ID))
	f.addPlan(t)

	_, ok := c.GetCached(ctx, f.membership.ID)
	assert.False(t, ok)
}

func TestMembershipCache_OracleFailureSkipsWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, 0)
	id := primitive.NewObjectID()
	c := NewMembershipCache(store, failingOracle{}, 0, zap.NewNop(), nil)

	c.SetCached(ctx, id, sampleAggregate(id))

	assert.Zero(t, store.Len())
	_, ok := c.GetCached(ctx, id)
	assert.False(t, ok)
}

func TestMembershipCache_VersionWriteFailureDropsPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mem := NewMemoryStore(ctx, 0)
	store := &failingStore{Store: mem, failSetKey: membershipVersionKey(f.membership.ID)}
	c := NewMembershipCache(store, f.oracle, 0, zap.NewNop(), nil)

	c.SetCached(ctx, f.membership.ID, sampleAggregate(f.membership.ID))

	assert.Zero(t, mem.Len())
}

func TestMembershipCache_InvalidateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := NewMemoryStore(ctx, 0)
	c := NewMembershipCache(store, f.oracle, 0, zap.NewNop(), nil)

	c.SetCached(ctx, f.membership.ID, sampleAggregate(f.membership.ID))
	require.Equal(t, 2, store.Len())

	require.NoError(t, c.Invalidate(ctx, f.membership.ID))
	require.NoError(t, c.Invalidate(ctx, f.membership.ID))
	assert.Zero(t, store.Len())

	_, ok := c.GetCached(ctx, f.membership.ID)
	assert.False(t, ok)
}
