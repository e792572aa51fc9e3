package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ptrainer/backend/internal/aggregation"
	"ptrainer/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetMembership_CachesAggregate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.enroll(t, f.client(t, "Ana Lima"), today.AddDate(0, 0, -2))

	first, err := f.memberships.GetMembership(ctx, m.ID)
	require.NoError(t, err)
	cached, ok := f.cache.GetCached(ctx, m.ID)
	require.True(t, ok)
	assert.Equal(t, first.Membership.ID, cached.Membership.ID)

	second, err := f.memberships.GetMembership(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Client.Name, second.Client.Name)
}

func TestGetMembership_ReflectsClientUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Ana Lima")
	m := f.enroll(t, client, today.AddDate(0, 0, -2))

	_, err := f.memberships.GetMembership(ctx, m.ID)
	require.NoError(t, err)

	_, err = f.clients.UpdateClient(ctx, client.ID, map[string]any{"weight": 68.5}, "trainer")
	require.NoError(t, err)

	agg, err := f.memberships.GetMembership(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, agg.Client.CurrentWeight)
	assert.Equal(t, 68.5, *agg.Client.CurrentWeight)
}

func TestGetMembership_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Ana Lima")
	expired := f.enroll(t, client, today.AddDate(-1, 0, 0))

	_, err := f.memberships.GetMembership(ctx, expired.ID)
	assert.ErrorIs(t, err, aggregation.ErrInactive)
	assert.Equal(t, "Membership is not active.", FailureMessage(err))

	_, err = f.memberships.GetMembership(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, "Membership not found.", FailureMessage(err))

	assert.Equal(t, "Client is disabled.", FailureMessage(aggregation.ErrClientDisabled))
	assert.Equal(t, "An error occurred: boom", FailureMessage(errors.New("boom")))
}

func TestCreateMembership_DerivesWindow(t *testing.T) {
	f := newFixture(t)
	client := f.client(t, "Ana Lima")
	pkg := f.pkg(t, 30)

	m, err := f.memberships.CreateMembership(context.Background(), client.ID, pkg.ID, nil, "trainer")
	require.NoError(t, err)

	require.NotNil(t, m.Start)
	require.NotNil(t, m.End)
	assert.Equal(t, today, *m.Start)
	assert.Equal(t, today.Add(30*24*time.Hour), *m.End)
	assert.True(t, m.Active)
}

func TestChangePackage_RecomputesWindowAndInvalidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Ana Lima")
	start := today.AddDate(0, 0, -40)
	m, err := f.memberships.CreateMembership(ctx, client.ID, f.pkg(t, 30).ID, &start, "trainer")
	require.NoError(t, err)
	assert.False(t, m.Active)

	longer := f.pkg(t, 60)
	updated, err := f.memberships.ChangePackage(ctx, m.ID, longer.ID, "trainer")
	require.NoError(t, err)
	assert.Equal(t, longer.ID, updated.PackageID)
	assert.Equal(t, start.Add(60*24*time.Hour), *updated.End)
	assert.True(t, updated.Active)

	agg, err := f.memberships.GetMembership(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, agg.Membership.Active)

	_, err = f.memberships.ChangePackage(ctx, m.ID, primitive.NewObjectID(), "trainer")
	assert.ErrorIs(t, err, ErrPackageNotFound)
}
