// Package aggregation assembles the membership aggregate: membership and client
// summaries, the visible plans, and the deduplicated library references they use.
package aggregation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ptrainer/backend/internal/cache"
	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/metrics"
	"ptrainer/backend/internal/nutrition"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrInactive       = errors.New("membership is not active")
	ErrClientDisabled = errors.New("client is disabled")
)

// hiddenStatus is the plan status left out of the aggregate.
const hiddenStatus = domain.PlanStatusScheduled

// Pipeline builds aggregates from the record store. Library references are
// resolved cache-aside through the LibraryCache.
type Pipeline struct {
	memberships repository.MembershipRepository
	clients     repository.ClientRepository
	plans       repository.PlanRepository
	exercises   repository.ExerciseRepository
	foods       repository.FoodRepository
	performance repository.PerformanceRepository
	library     *cache.LibraryCache
	variants    map[domain.Macro][]string
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

func NewPipeline(
	memberships repository.MembershipRepository,
	clients repository.ClientRepository,
	plans repository.PlanRepository,
	exercises repository.ExerciseRepository,
	foods repository.FoodRepository,
	performance repository.PerformanceRepository,
	library *cache.LibraryCache,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Pipeline {
	return &Pipeline{
		memberships: memberships,
		clients:     clients,
		plans:       plans,
		exercises:   exercises,
		foods:       foods,
		performance: performance,
		library:     library,
		variants:    nutrition.Variants,
		logger:      logger,
		metrics:     m,
	}
}

// Build assembles the aggregate of one membership. It fails with
// repository.ErrNotFound, ErrInactive or ErrClientDisabled before touching
// plans; library rows that cannot be loaded are logged and left out.
func (p *Pipeline) Build(ctx context.Context, membershipID primitive.ObjectID) (*domain.Aggregate, error) {
	started := time.Now()
	aggregate, err := p.build(ctx, membershipID)
	p.metrics.ObserveBuild(buildOutcome(err), time.Since(started))
	return aggregate, err
}

func buildOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInactive), errors.Is(err, ErrClientDisabled), errors.Is(err, repository.ErrNotFound):
		return "rejected"
	default:
		return "error"
	}
}

func (p *Pipeline) build(ctx context.Context, membershipID primitive.ObjectID) (*domain.Aggregate, error) {
	log := p.logger.With(zap.String("membership", membershipID.Hex()))

	membership, err := p.memberships.GetByID(ctx, membershipID)
	if err != nil {
		return nil, fmt.Errorf("load membership %s: %w", membershipID.Hex(), err)
	}
	if !membership.Active {
		return nil, ErrInactive
	}
	client, err := p.clients.GetByID(ctx, membership.ClientID)
	if err != nil {
		return nil, fmt.Errorf("load client %s: %w", membership.ClientID.Hex(), err)
	}
	if !client.Enabled {
		return nil, ErrClientDisabled
	}

	plans, err := p.plans.ListByMembership(ctx, membershipID, hiddenStatus)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	var exerciseIDs, foodIDs []primitive.ObjectID
	for i := range plans {
		exerciseIDs = append(exerciseIDs, plans[i].ExerciseIDs()...)
		foodIDs = append(foodIDs, plans[i].FoodIDs()...)
	}
	exerciseIDs = unique(exerciseIDs)
	foodIDs = unique(foodIDs)

	refs := domain.References{
		Exercises:   p.resolveExercises(ctx, log, exerciseIDs),
		Foods:       p.resolveFoods(ctx, log, foodIDs),
		Performance: map[string][]domain.PerformanceEntry{},
	}
	if len(exerciseIDs) > 0 {
		logs, err := p.performance.ListByExercises(ctx, client.ID, exerciseIDs)
		if err != nil {
			return nil, fmt.Errorf("load performance history: %w", err)
		}
		refs.Performance = groupPerformance(logs)
	}

	views := make([]domain.PlanView, 0, len(plans))
	for i := range plans {
		views = append(views, planView(&plans[i], refs.Foods))
	}

	return &domain.Aggregate{
		Membership: summarizeMembership(membership),
		Client:     summarizeClient(client),
		Plans:      views,
		References: refs,
	}, nil
}

// unique drops repeated ids, keeping first-seen order.
func unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func summarizeMembership(m *domain.Membership) domain.MembershipSummary {
	return domain.MembershipSummary{
		ID:        m.ID.Hex(),
		PackageID: hexOrEmpty(m.PackageID),
		ClientID:  m.ClientID.Hex(),
		Start:     m.Start,
		End:       m.End,
		Active:    m.Active,
	}
}

func summarizeClient(c *domain.Client) domain.ClientSummary {
	weight := c.Weight
	if weight == nil {
		weight = []domain.WeightEntry{}
	}
	return domain.ClientSummary{
		ID:            c.ID.Hex(),
		Name:          c.Name,
		Enabled:       c.Enabled,
		Image:         c.Image,
		Email:         c.Email,
		Mobile:        c.Mobile,
		Nationality:   c.Nationality,
		DateOfBirth:   c.DateOfBirth,
		Age:           c.Age,
		Gender:        c.Gender,
		Height:        c.Height,
		ActivityLevel: c.ActivityLevel,
		Goal:          c.Goal,
		TargetWeight:  c.TargetWeight,
		Meals:         c.Meals,
		Workouts:      c.Workouts,
		Equipment:     c.Equipment,
		BMI:           c.BMI,
		BMR:           c.BMR,
		TDEE:          c.TDEE,
		Adjust:        c.Adjust,
		Factor:        c.Factor,
		Weight:        weight,
		CurrentWeight: c.CurrentWeight(),
		UpdatedAt:     c.UpdatedAt,
	}
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

func groupPerformance(logs []domain.PerformanceLog) map[string][]domain.PerformanceEntry {
	out := make(map[string][]domain.PerformanceEntry)
	for _, l := range logs {
		key := l.ExerciseID.Hex()
		out[key] = append(out[key], domain.PerformanceEntry{Weight: l.Weight, Reps: l.Reps, Date: l.Date})
	}
	return out
}
