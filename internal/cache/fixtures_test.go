package cache

import (
	"context"
	"testing"
	"time"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository/memory"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	db         *memory.DB
	membership *domain.Membership
	client     *domain.Client
	oracle     *VersionOracle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memory.NewDB(nil)

	client := &domain.Client{Name: "Ana Lima", Enabled: true}
	_, err := db.Clients().Create(ctx, client)
	require.NoError(t, err)

	start := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Millisecond)
	end := start.Add(30 * 24 * time.Hour)
	membership := &domain.Membership{ClientID: client.ID, Start: &start, End: &end, Active: true}
	_, err = db.Memberships().Create(ctx, membership)
	require.NoError(t, err)

	return &fixture{
		db:         db,
		membership: membership,
		client:     client,
		oracle:     NewVersionOracle(db.Memberships(), db.Clients(), db.Plans()),
	}
}

func (f *fixture) addPlan(t *testing.T) *domain.Plan {
	t.Helper()
	plan := &domain.Plan{ClientID: f.client.ID, MembershipID: f.membership.ID, Status: domain.PlanStatusActive}
	_, err := f.db.Plans().Create(context.Background(), plan)
	require.NoError(t, err)
	return plan
}

func sampleAggregate(id primitive.ObjectID) *domain.Aggregate {
	return &domain.Aggregate{
		Membership: domain.MembershipSummary{ID: id.Hex(), Active: true},
		Client:     domain.ClientSummary{Name: "Ana Lima", Enabled: true, Weight: []domain.WeightEntry{}},
		Plans:      []domain.PlanView{},
		References: domain.References{
			Exercises:   map[string]domain.ExerciseReference{},
			Foods:       map[string]domain.FoodReference{},
			Performance: map[string][]domain.PerformanceEntry{},
		},
	}
}
