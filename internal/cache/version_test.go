package cache

import (
	"context"
	"testing"

	"ptrainer/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVersionOracle_Deterministic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPlan(t)

	first, err := f.oracle.Compute(ctx, f.membership.ID)
	require.NoError(t, err)
	second, err := f.oracle.Compute(ctx, f.membership.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, string(first), 64)
}

func TestVersionOracle_ChangesOnEachDependency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token := func() Token {
		tok, err := f.oracle.Compute(ctx, f.membership.ID)
		require.NoError(t, err)
		return tok
	}
	seen := map[Token]string{token(): "initial"}
	record := func(label string) {
		tok := token()
		prev, dup := seen[tok]
		assert.Falsef(t, dup, "%s produced the same token as %s", label, prev)
		seen[tok] = label
	}

	f.membership.UpdatedBy = "trainer"
	require.NoError(t, f.db.Memberships().Update(ctx, f.membership))
	record("membership update")

	f.client.Height = 171
	require.NoError(t, f.db.Clients().Update(ctx, f.client))
	record("client update")

	plan := f.addPlan(t)
	record("plan create")

	plan.Title = "renamed"
	require.NoError(t, f.db.Plans().Update(ctx, plan))
	record("plan update")

	other := f.addPlan(t)
	record("second plan")

	require.NoError(t, f.db.Plans().Delete(ctx, other.ID))
	record("plan delete")
}

func TestVersionOracle_IgnoresSystemWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.oracle.Compute(ctx, f.membership.ID)
	require.NoError(t, err)
	require.NoError(t, f.db.Memberships().SetActive(ctx, f.membership.ID, false))
	after, err := f.oracle.Compute(ctx, f.membership.ID)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestVersionOracle_MissingMembership(t *testing.T) {
	f := newFixture(t)

	_, err := f.oracle.Compute(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrVersionUnavailable)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
