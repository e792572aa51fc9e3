package memory

import (
	"context"
	"sort"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type planRepository struct{ db *DB }

// Plans returns the plan repository of db.
func (db *DB) Plans() repository.PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(_ context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.MembershipID.IsZero() {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	ts := r.db.stamp()
	plan.CreatedAt = ts
	plan.UpdatedAt = ts
	r.db.plans[plan.ID] = clonePlan(*plan)
	return plan.ID, nil
}

func (r *planRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = clonePlan(p)
	return &p, nil
}

func (r *planRepository) Update(_ context.Context, plan *domain.Plan) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.plans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	plan.CreatedAt = stored.CreatedAt
	plan.UpdatedAt = r.db.stamp()
	r.db.plans[plan.ID] = clonePlan(*plan)
	return nil
}

func (r *planRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.plans, id)
	return nil
}

func (r *planRepository) ListByMembership(_ context.Context, membershipID primitive.ObjectID, excludeStatus domain.PlanStatus) ([]domain.Plan, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var plans []domain.Plan
	for _, p := range r.db.plans {
		if p.MembershipID != membershipID {
			continue
		}
		if excludeStatus != "" && p.Status == excludeStatus {
			continue
		}
		plans = append(plans, clonePlan(p))
	}
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].Start.Equal(plans[j].Start) {
			return plans[i].ID.Hex() < plans[j].ID.Hex()
		}
		return plans[i].Start.Before(plans[j].Start)
	})
	return plans, nil
}

func (r *planRepository) LatestByMembership(_ context.Context, membershipID primitive.ObjectID) (*domain.Plan, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var latest *domain.Plan
	for _, p := range r.db.plans {
		if p.MembershipID != membershipID {
			continue
		}
		if latest == nil || p.End.After(latest.End) {
			p := clonePlan(p)
			latest = &p
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r *planRepository) VersionSummary(_ context.Context, membershipID primitive.ObjectID) (domain.PlanVersionSummary, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var summary domain.PlanVersionSummary
	for _, p := range r.db.plans {
		if p.MembershipID != membershipID {
			continue
		}
		summary.Count++
		if summary.LastUpdatedAt == nil || p.UpdatedAt.After(*summary.LastUpdatedAt) {
			ts := p.UpdatedAt
			summary.LastUpdatedAt = &ts
		}
	}
	return summary, nil
}

func (r *planRepository) ListOpen(_ context.Context) ([]domain.Plan, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var open []domain.Plan
	for _, p := range r.db.plans {
		if p.Status != domain.PlanStatusCompleted {
			open = append(open, clonePlan(p))
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].ID.Hex() < open[j].ID.Hex() })
	return open, nil
}

func (r *planRepository) SetStatus(_ context.Context, id primitive.ObjectID, status domain.PlanStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	r.db.plans[id] = p
	return nil
}
