package service

import (
	"context"
	"testing"

	"ptrainer/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpdateClient_SetsAllowListedFields(t *testing.T) {
	f := newFixture(t)
	client := f.client(t, "Ana Lima")

	updated, err := f.clients.UpdateClient(context.Background(), client.ID, map[string]any{
		"height":        "171.5",
		"goal":          "Lose Weight",
		"meals":         float64(4),
		"adjust":        true,
		"date_of_birth": "1990-05-17",
	}, "trainer")
	require.NoError(t, err)

	assert.Equal(t, 171.5, updated.Height)
	assert.Equal(t, "Lose Weight", updated.Goal)
	assert.Equal(t, 4, updated.Meals)
	assert.True(t, updated.Adjust)
	require.NotNil(t, updated.DateOfBirth)
	assert.Equal(t, 1990, updated.DateOfBirth.Year())
	assert.Equal(t, "trainer", updated.UpdatedBy)
}

func TestUpdateClient_AppendsWeight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Ana Lima")

	_, err := f.clients.UpdateClient(ctx, client.ID, map[string]any{"weight": 70.0}, "trainer")
	require.NoError(t, err)
	updated, err := f.clients.UpdateClient(ctx, client.ID, map[string]any{"weight": "69.2"}, "trainer")
	require.NoError(t, err)

	require.Len(t, updated.Weight, 2)
	assert.Equal(t, domain.WeightEntry{Weight: 69.2, Date: startOfDay(today)}, updated.Weight[1])
	assert.Equal(t, 69.2, *updated.CurrentWeight())
}

func TestUpdateClient_LogsPerformance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Ana Lima")
	squat, err := f.db.Exercises().Create(ctx, &domain.Exercise{Name: "Squat"})
	require.NoError(t, err)

	_, err = f.clients.UpdateClient(ctx, client.ID, map[string]any{"exercise": squat.Hex() + ",82.5,6"}, "trainer")
	require.NoError(t, err)

	logs, err := f.db.Performance().ListByExercises(ctx, client.ID, []primitive.ObjectID{squat})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 82.5, logs[0].Weight)
	assert.Equal(t, 6, logs[0].Reps)
	assert.Equal(t, startOfDay(today), logs[0].Date)
}

func TestUpdateClient_RejectsBeforeWriting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Ana Lima")
	squat, err := f.db.Exercises().Create(ctx, &domain.Exercise{Name: "Squat"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		fields map[string]any
		err    error
	}{
		{"unknown field", map[string]any{"height": 170.0, "password": "x"}, ErrUnknownField},
		{"two parts", map[string]any{"exercise": squat.Hex() + ",80"}, ErrInvalidExercise},
		{"bad reps", map[string]any{"exercise": squat.Hex() + ",80,many"}, ErrInvalidExercise},
		{"unknown exercise", map[string]any{"exercise": primitive.NewObjectID().Hex() + ",80,5"}, ErrInvalidExercise},
		{"bad number", map[string]any{"height": "tall"}, ErrInvalidFieldValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.clients.UpdateClient(ctx, client.ID, tc.fields, "trainer")
			assert.ErrorIs(t, err, tc.err)
		})
	}

	stored, err := f.db.Clients().GetByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, client.UpdatedAt, stored.UpdatedAt)
	assert.Zero(t, stored.Height)
}

func TestUpdateClient_InvalidatesEveryMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Ana Lima")
	first := f.enroll(t, client, today.AddDate(0, 0, -1))
	second := f.enroll(t, client, today.AddDate(0, 0, -1))
	for _, id := range []primitive.ObjectID{first.ID, second.ID} {
		_, err := f.memberships.GetMembership(ctx, id)
		require.NoError(t, err)
	}

	_, err := f.clients.UpdateClient(ctx, client.ID, map[string]any{"goal": "Build Muscle"}, "trainer")
	require.NoError(t, err)

	for _, id := range []primitive.ObjectID{first.ID, second.ID} {
		_, ok := f.cache.GetCached(ctx, id)
		assert.False(t, ok)
	}
}

func TestUpdateClient_UnknownClient(t *testing.T) {
	f := newFixture(t)
	_, err := f.clients.UpdateClient(context.Background(), primitive.NewObjectID(), map[string]any{"goal": "x"}, "trainer")
	assert.ErrorIs(t, err, ErrClientNotFound)
}
