package service

import (
	"context"
	"errors"
	"time"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrMembershipNoDate = errors.New("membership has no start date")
)

// PlanInput carries the trainer-editable parts of a plan. Dates, status,
// title and rest flags are always derived.
type PlanInput struct {
	Targets domain.PlanTargets                 `json:"targets"`
	Config  domain.PlanConfig                  `json:"config"`
	Days    [domain.DaysPerPlan]domain.PlanDay `json:"days"`
}

type PlanService interface {
	// CreatePlan adds the next Monday..Sunday plan to a membership.
	CreatePlan(ctx context.Context, membershipID primitive.ObjectID, input PlanInput, updatedBy string) (*domain.Plan, error)
	UpdatePlan(ctx context.Context, planID primitive.ObjectID, input PlanInput, updatedBy string) (*domain.Plan, error)
	DeletePlan(ctx context.Context, planID primitive.ObjectID) error
}

type planService struct {
	planRepo       repository.PlanRepository
	membershipRepo repository.MembershipRepository
	clientRepo     repository.ClientRepository
	invalidator    Invalidator
	logger         *zap.Logger
	now            func() time.Time
}

func NewPlanService(
	planRepo repository.PlanRepository,
	membershipRepo repository.MembershipRepository,
	clientRepo repository.ClientRepository,
	invalidator Invalidator,
	logger *zap.Logger,
) PlanService {
	return &planService{
		planRepo:       planRepo,
		membershipRepo: membershipRepo,
		clientRepo:     clientRepo,
		invalidator:    invalidator,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *planService) CreatePlan(ctx context.Context, membershipID primitive.ObjectID, input PlanInput, updatedBy string) (*domain.Plan, error) {
	membership, err := s.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	if membership.Start == nil {
		return nil, ErrMembershipNoDate
	}
	client, err := s.clientRepo.GetByID(ctx, membership.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	var lastEnd *time.Time
	latest, err := s.planRepo.LatestByMembership(ctx, membershipID)
	switch {
	case err == nil:
		end := latest.End.UTC()
		lastEnd = &end
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	plan := &domain.Plan{
		ClientID:     membership.ClientID,
		MembershipID: membershipID,
		Targets:      input.Targets,
		Config:       input.Config,
		Days:         input.Days,
		UpdatedBy:    updatedBy,
	}
	plan.Schedule(domain.NextPlanWeek(membership.Start.UTC(), lastEnd), s.now().UTC())
	plan.BuildTitle(client.Name)

	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	s.notify(ctx, plan)
	return plan, nil
}

// UpdatePlan replaces the editable parts and re-derives status and rest days.
func (s *planService) UpdatePlan(ctx context.Context, planID primitive.ObjectID, input PlanInput, updatedBy string) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	plan.Targets = input.Targets
	plan.Config = input.Config
	plan.Days = input.Days
	plan.UpdatedBy = updatedBy
	plan.Schedule(plan.Start, s.now().UTC())

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	s.notify(ctx, plan)
	return plan, nil
}

func (s *planService) DeletePlan(ctx context.Context, planID primitive.ObjectID) error {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if err := s.planRepo.Delete(ctx, planID); err != nil {
		return err
	}
	s.notify(ctx, plan)
	return nil
}

func (s *planService) notify(ctx context.Context, plan *domain.Plan) {
	if err := s.invalidator.PlanChanged(ctx, plan.ID, plan.MembershipID); err != nil {
		s.logger.Warn("plan cache invalidation failed", zap.String("plan", plan.ID.Hex()), zap.Error(err))
	}
}
