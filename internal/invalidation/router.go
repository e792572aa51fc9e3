// Package invalidation maps record mutations onto cache invalidations.
package invalidation

import (
	"context"
	"errors"
	"fmt"

	"ptrainer/backend/internal/cache"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Kind names the record type an Event is about.
type Kind string

const (
	KindPlan       Kind = "plan"
	KindMembership Kind = "membership"
	KindClient     Kind = "client"
	KindExercise   Kind = "exercise"
	KindFood       Kind = "food"
)

// Event is a mutation notification. MembershipID is optional and only read for plans.
type Event struct {
	Kind         Kind
	ID           primitive.ObjectID
	MembershipID primitive.ObjectID
}

var ErrUnknownKind = errors.New("unknown event kind")

// Router invalidates membership aggregates and library entries affected by a mutation.
type Router struct {
	memberships repository.MembershipRepository
	plans       repository.PlanRepository
	membership  *cache.MembershipCache
	library     *cache.LibraryCache
	logger      *zap.Logger
}

func NewRouter(
	memberships repository.MembershipRepository,
	plans repository.PlanRepository,
	membershipCache *cache.MembershipCache,
	libraryCache *cache.LibraryCache,
	logger *zap.Logger,
) *Router {
	return &Router{
		memberships: memberships,
		plans:       plans,
		membership:  membershipCache,
		library:     libraryCache,
		logger:      logger,
	}
}

// Handle dispatches an event to the matching handler.
func (r *Router) Handle(ctx context.Context, event Event) error {
	switch event.Kind {
	case KindPlan:
		return r.PlanChanged(ctx, event.ID, event.MembershipID)
	case KindMembership:
		return r.MembershipChanged(ctx, event.ID)
	case KindClient:
		return r.ClientChanged(ctx, event.ID)
	case KindExercise:
		return r.ExerciseChanged(ctx, event.ID)
	case KindFood:
		return r.FoodChanged(ctx, event.ID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, event.Kind)
	}
}

// PlanChanged invalidates the plan's membership. When membershipID is zero it
// is looked up from the plan; a plan that no longer exists is left to the
// version token, which already counts plans.
func (r *Router) PlanChanged(ctx context.Context, planID, membershipID primitive.ObjectID) error {
	if membershipID.IsZero() {
		plan, err := r.plans.GetByID(ctx, planID)
		if errors.Is(err, repository.ErrNotFound) {
			r.logger.Debug("plan gone, relying on version token", zap.String("plan", planID.Hex()))
			return nil
		}
		if err != nil {
			return fmt.Errorf("resolve membership of plan %s: %w", planID.Hex(), err)
		}
		membershipID = plan.MembershipID
	}
	return r.MembershipChanged(ctx, membershipID)
}

func (r *Router) MembershipChanged(ctx context.Context, membershipID primitive.ObjectID) error {
	if err := r.membership.Invalidate(ctx, membershipID); err != nil {
		return fmt.Errorf("invalidate membership %s: %w", membershipID.Hex(), err)
	}
	r.logger.Debug("membership cache invalidated", zap.String("membership", membershipID.Hex()))
	return nil
}

// ClientChanged invalidates every membership of the client. One failed
// invalidation does not stop the others.
func (r *Router) ClientChanged(ctx context.Context, clientID primitive.ObjectID) error {
	ids, err := r.memberships.ListIDsByClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("list memberships of client %s: %w", clientID.Hex(), err)
	}
	var errs []error
	for _, id := range ids {
		if err := r.MembershipChanged(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Router) ExerciseChanged(ctx context.Context, exerciseID primitive.ObjectID) error {
	return r.libraryChanged(ctx, cache.ItemExercise, exerciseID)
}

func (r *Router) FoodChanged(ctx context.Context, foodID primitive.ObjectID) error {
	return r.libraryChanged(ctx, cache.ItemFood, foodID)
}

func (r *Router) libraryChanged(ctx context.Context, itemType cache.ItemType, id primitive.ObjectID) error {
	if !r.library.Contains(ctx, itemType, id) {
		return nil
	}
	if err := r.library.Invalidate(ctx, itemType, id); err != nil {
		return fmt.Errorf("invalidate %s %s: %w", itemType, id.Hex(), err)
	}
	return nil
}
