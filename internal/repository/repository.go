package repository

import (
	"context"

	"ptrainer/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrInvalid      = RepositoryError("invalid record")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// MembershipRepository defines the interface for interacting with membership data.
type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.Membership) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Membership, error)
	// Update persists the membership and stamps UpdatedAt/UpdatedBy.
	Update(ctx context.Context, membership *domain.Membership) error
	ListIDsByClient(ctx context.Context, clientID primitive.ObjectID) ([]primitive.ObjectID, error)
	ListActive(ctx context.Context) ([]domain.Membership, error)
	// SetActive flips the active flag directly. It never touches UpdatedAt/UpdatedBy.
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

// PackageRepository defines the interface for interacting with package data.
type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.Package) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Package, error)
}

// ClientRepository defines the interface for interacting with client data.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
}

// PlanRepository defines the interface for interacting with plan data.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ListByMembership returns the membership's plans ordered by start, skipping plans in excludeStatus.
	// An empty excludeStatus returns every plan.
	ListByMembership(ctx context.Context, membershipID primitive.ObjectID, excludeStatus domain.PlanStatus) ([]domain.Plan, error)
	// LatestByMembership returns the plan with the latest end date, or ErrNotFound.
	LatestByMembership(ctx context.Context, membershipID primitive.ObjectID) (*domain.Plan, error)
	// ListOpen returns every plan that is not Completed.
	ListOpen(ctx context.Context) ([]domain.Plan, error)
	// SetStatus stores a derived status. Like MembershipRepository.SetActive it is a system write.
	SetStatus(ctx context.Context, id primitive.ObjectID, status domain.PlanStatus) error
	// VersionSummary counts the membership's plans and finds their latest UpdatedAt without loading bodies.
	VersionSummary(ctx context.Context, membershipID primitive.ObjectID) (domain.PlanVersionSummary, error)
}

// ExerciseRepository defines the interface for interacting with exercise library data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
}

// FoodRepository defines the interface for interacting with food library data.
type FoodRepository interface {
	Create(ctx context.Context, food *domain.Food) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Food, error)
	Update(ctx context.Context, food *domain.Food) error
}

// PerformanceRepository defines the interface for exercise performance logs.
type PerformanceRepository interface {
	Create(ctx context.Context, log *domain.PerformanceLog) (primitive.ObjectID, error)
	ListByExercises(ctx context.Context, clientID primitive.ObjectID, exerciseIDs []primitive.ObjectID) ([]domain.PerformanceLog, error)
}
