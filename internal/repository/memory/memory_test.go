package memory

import (
	"context"
	"testing"
	"time"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func frozenClock() func() time.Time {
	t := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestStampStrictlyIncreases(t *testing.T) {
	db := NewDB(frozenClock())
	clients := db.Clients()
	ctx := context.Background()

	client := &domain.Client{Name: "Ana Lima"}
	_, err := clients.Create(ctx, client)
	require.NoError(t, err)
	created := client.UpdatedAt

	require.NoError(t, clients.Update(ctx, client))
	assert.True(t, client.UpdatedAt.After(created))
	assert.Equal(t, created, client.CreatedAt)
}

func TestSetActiveLeavesAuditStamp(t *testing.T) {
	db := NewDB(nil)
	memberships := db.Memberships()
	ctx := context.Background()

	m := &domain.Membership{ClientID: primitive.NewObjectID(), Active: true, UpdatedBy: "trainer"}
	id, err := memberships.Create(ctx, m)
	require.NoError(t, err)

	require.NoError(t, memberships.SetActive(ctx, id, false))
	got, err := memberships.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, m.UpdatedAt, got.UpdatedAt)
	assert.Equal(t, "trainer", got.UpdatedBy)

	assert.ErrorIs(t, memberships.SetActive(ctx, primitive.NewObjectID(), false), repository.ErrNotFound)
}

func TestReturnedValuesDoNotAlias(t *testing.T) {
	db := NewDB(nil)
	clients := db.Clients()
	ctx := context.Background()

	id, err := clients.Create(ctx, &domain.Client{Name: "Ana", Weight: []domain.WeightEntry{{Weight: 70}}})
	require.NoError(t, err)

	got, err := clients.GetByID(ctx, id)
	require.NoError(t, err)
	got.Weight[0].Weight = 99

	again, err := clients.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 70.0, again.Weight[0].Weight)
}

func TestPlanQueries(t *testing.T) {
	db := NewDB(nil)
	plans := db.Plans()
	ctx := context.Background()
	membershipID := primitive.NewObjectID()

	empty, err := plans.VersionSummary(ctx, membershipID)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Nil(t, empty.LastUpdatedAt)

	week1 := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	first := &domain.Plan{MembershipID: membershipID, Start: week1.AddDate(0, 0, 7), End: week1.AddDate(0, 0, 13), Status: domain.PlanStatusScheduled}
	second := &domain.Plan{MembershipID: membershipID, Start: week1, End: week1.AddDate(0, 0, 6), Status: domain.PlanStatusActive}
	_, err = plans.Create(ctx, first)
	require.NoError(t, err)
	_, err = plans.Create(ctx, second)
	require.NoError(t, err)
	_, err = plans.Create(ctx, &domain.Plan{MembershipID: primitive.NewObjectID()})
	require.NoError(t, err)

	all, err := plans.ListByMembership(ctx, membershipID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	visible, err := plans.ListByMembership(ctx, membershipID, domain.PlanStatusScheduled)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, second.ID, visible[0].ID)

	latest, err := plans.LatestByMembership(ctx, membershipID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)

	summary, err := plans.VersionSummary(ctx, membershipID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	require.NotNil(t, summary.LastUpdatedAt)
	assert.Equal(t, second.UpdatedAt, *summary.LastUpdatedAt)

	require.NoError(t, plans.Delete(ctx, first.ID))
	assert.ErrorIs(t, plans.Delete(ctx, first.ID), repository.ErrNotFound)
}

func TestPerformanceScopedToClient(t *testing.T) {
	db := NewDB(nil)
	perf := db.Performance()
	ctx := context.Background()
	client, other, exercise := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	_, err := perf.Create(ctx, &domain.PerformanceLog{ClientID: client, ExerciseID: exercise, Weight: 60, Reps: 8, Date: day.AddDate(0, 0, 1)})
	require.NoError(t, err)
	_, err = perf.Create(ctx, &domain.PerformanceLog{ClientID: client, ExerciseID: exercise, Weight: 55, Reps: 10, Date: day})
	require.NoError(t, err)
	_, err = perf.Create(ctx, &domain.PerformanceLog{ClientID: other, ExerciseID: exercise, Weight: 100, Reps: 1, Date: day})
	require.NoError(t, err)

	logs, err := perf.ListByExercises(ctx, client, []primitive.ObjectID{exercise})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 55.0, logs[0].Weight)
	assert.Equal(t, 60.0, logs[1].Weight)
}
