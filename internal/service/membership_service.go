package service

import (
	"context"
	"errors"
	"time"

	"ptrainer/backend/internal/aggregation"
	"ptrainer/backend/internal/cache"
	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")
	ErrPackageNotFound    = errors.New("package not found")
	ErrClientNotFound     = errors.New("client not found")
)

// Invalidator is notified after a record that feeds membership aggregates is written.
type Invalidator interface {
	PlanChanged(ctx context.Context, planID, membershipID primitive.ObjectID) error
	MembershipChanged(ctx context.Context, membershipID primitive.ObjectID) error
	ClientChanged(ctx context.Context, clientID primitive.ObjectID) error
}

type MembershipService interface {
	// GetMembership returns the membership aggregate, served from cache when its version still matches.
	GetMembership(ctx context.Context, membershipID primitive.ObjectID) (*domain.Aggregate, error)
	CreateMembership(ctx context.Context, clientID, packageID primitive.ObjectID, start *time.Time, updatedBy string) (*domain.Membership, error)
	ChangePackage(ctx context.Context, membershipID, packageID primitive.ObjectID, updatedBy string) (*domain.Membership, error)
}

type membershipService struct {
	membershipRepo repository.MembershipRepository
	packageRepo    repository.PackageRepository
	clientRepo     repository.ClientRepository
	cache          *cache.MembershipCache
	pipeline       *aggregation.Pipeline
	invalidator    Invalidator
	logger         *zap.Logger
	now            func() time.Time
}

func NewMembershipService(
	membershipRepo repository.MembershipRepository,
	packageRepo repository.PackageRepository,
	clientRepo repository.ClientRepository,
	membershipCache *cache.MembershipCache,
	pipeline *aggregation.Pipeline,
	invalidator Invalidator,
	logger *zap.Logger,
) MembershipService {
	return &membershipService{
		membershipRepo: membershipRepo,
		packageRepo:    packageRepo,
		clientRepo:     clientRepo,
		cache:          membershipCache,
		pipeline:       pipeline,
		invalidator:    invalidator,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *membershipService) GetMembership(ctx context.Context, membershipID primitive.ObjectID) (*domain.Aggregate, error) {
	if aggregate, ok := s.cache.GetCached(ctx, membershipID); ok {
		return aggregate, nil
	}
	aggregate, err := s.pipeline.Build(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	s.cache.SetCached(ctx, membershipID, aggregate)
	return aggregate, nil
}

// CreateMembership enrolls a client in a package. The window starts at start, or now when nil.
func (s *membershipService) CreateMembership(ctx context.Context, clientID, packageID primitive.ObjectID, start *time.Time, updatedBy string) (*domain.Membership, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	now := s.now().UTC()
	membership := &domain.Membership{ClientID: clientID, Start: start, UpdatedBy: updatedBy}
	membership.ApplyPackage(pkg, now)
	membership.RefreshActive(now)

	if _, err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

// ChangePackage moves the membership to another package and recomputes its window.
func (s *membershipService) ChangePackage(ctx context.Context, membershipID, packageID primitive.ObjectID, updatedBy string) (*domain.Membership, error) {
	membership, err := s.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	now := s.now().UTC()
	membership.ApplyPackage(pkg, now)
	membership.RefreshActive(now)
	membership.UpdatedBy = updatedBy
	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		return nil, err
	}
	if err := s.invalidator.MembershipChanged(ctx, membership.ID); err != nil {
		s.logger.Warn("membership cache invalidation failed", zap.String("membership", membership.ID.Hex()), zap.Error(err))
	}
	return membership, nil
}

// FailureMessage renders a read-path failure as the message shown to callers.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, aggregation.ErrInactive):
		return "Membership is not active."
	case errors.Is(err, aggregation.ErrClientDisabled):
		return "Client is disabled."
	case errors.Is(err, repository.ErrNotFound):
		return "Membership not found."
	default:
		return "An error occurred: " + err.Error()
	}
}
