package service

import (
	"context"
	"testing"
	"time"

	"ptrainer/backend/internal/aggregation"
	"ptrainer/backend/internal/cache"
	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/invalidation"
	"ptrainer/backend/internal/repository/memory"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// today is a Wednesday.
var today = time.Date(2024, 3, 6, 9, 30, 0, 0, time.UTC)

type fixture struct {
	db          *memory.DB
	library     *cache.LibraryCache
	cache       *cache.MembershipCache
	pipeline    *aggregation.Pipeline
	router      *invalidation.Router
	memberships *membershipService
	clients     *clientService
	plans       *planService
	nutrition   NutritionService
	libraryItem LibraryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	db := memory.NewDB(nil)
	store := cache.NewMemoryStore(ctx, 0)

	library := cache.NewLibraryCache(store, 0, logger, nil)
	oracle := cache.NewVersionOracle(db.Memberships(), db.Clients(), db.Plans())
	membershipCache := cache.NewMembershipCache(store, oracle, 0, logger, nil)
	pipeline := aggregation.NewPipeline(db.Memberships(), db.Clients(), db.Plans(), db.Exercises(), db.Foods(),
		db.Performance(), library, logger, nil)
	router := invalidation.NewRouter(db.Memberships(), db.Plans(), membershipCache, library, logger)

	clock := func() time.Time { return today }
	ms := NewMembershipService(db.Memberships(), db.Packages(), db.Clients(), membershipCache, pipeline, router, logger).(*membershipService)
	ms.now = clock
	cs := NewClientService(db.Clients(), db.Exercises(), db.Performance(), router, logger).(*clientService)
	cs.now = clock
	ps := NewPlanService(db.Plans(), db.Memberships(), db.Clients(), router, logger).(*planService)
	ps.now = clock

	return &fixture{
		db:          db,
		library:     library,
		cache:       membershipCache,
		pipeline:    pipeline,
		router:      router,
		memberships: ms,
		clients:     cs,
		plans:       ps,
		nutrition:   NewNutritionService(pipeline, logger),
		libraryItem: NewLibraryService(db.Exercises(), db.Foods(), router, logger),
	}
}

func (f *fixture) client(t *testing.T, name string) *domain.Client {
	t.Helper()
	c := &domain.Client{Name: name, Enabled: true}
	_, err := f.db.Clients().Create(context.Background(), c)
	require.NoError(t, err)
	return c
}

func (f *fixture) pkg(t *testing.T, days int) *domain.Package {
	t.Helper()
	p := &domain.Package{Name: "Monthly", Duration: int64(days) * 24 * 3600}
	_, err := f.db.Packages().Create(context.Background(), p)
	require.NoError(t, err)
	return p
}

// enroll creates an active membership that started on start.
func (f *fixture) enroll(t *testing.T, client *domain.Client, start time.Time) *domain.Membership {
	t.Helper()
	m, err := f.memberships.CreateMembership(context.Background(), client.ID, f.pkg(t, 90).ID, &start, "trainer")
	require.NoError(t, err)
	return m
}

func (f *fixture) food(t *testing.T, title string, kcal, protein float64) primitive.ObjectID {
	t.Helper()
	id, err := f.db.Foods().Create(context.Background(), &domain.Food{
		Title: title,
		NutritionalFacts: []domain.NutritionalFact{
			{Nutrient: "Energy", Value: kcal, Unit: "kcal"},
			{Nutrient: "Protein", Value: protein, Unit: "g"},
		},
	})
	require.NoError(t, err)
	return id
}
