package memory

import (
	"context"
	"sort"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type membershipRepository struct{ db *DB }

// Memberships returns the membership repository of db.
func (db *DB) Memberships() repository.MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(_ context.Context, membership *domain.Membership) (primitive.ObjectID, error) {
	if membership.ClientID.IsZero() {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	membership.ID = primitive.NewObjectID()
	ts := r.db.stamp()
	membership.CreatedAt = ts
	membership.UpdatedAt = ts
	r.db.memberships[membership.ID] = cloneMembership(*membership)
	return membership.ID, nil
}

func (r *membershipRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Membership, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	m, ok := r.db.memberships[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m = cloneMembership(m)
	return &m, nil
}

func (r *membershipRepository) Update(_ context.Context, membership *domain.Membership) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.memberships[membership.ID]
	if !ok {
		return repository.ErrNotFound
	}
	membership.CreatedAt = stored.CreatedAt
	membership.UpdatedAt = r.db.stamp()
	r.db.memberships[membership.ID] = cloneMembership(*membership)
	return nil
}

func (r *membershipRepository) ListIDsByClient(_ context.Context, clientID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var ids []primitive.ObjectID
	for id, m := range r.db.memberships {
		if m.ClientID == clientID {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids, nil
}

func (r *membershipRepository) ListActive(_ context.Context) ([]domain.Membership, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var active []domain.Membership
	for _, m := range r.db.memberships {
		if m.Active {
			active = append(active, cloneMembership(m))
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID.Hex() < active[j].ID.Hex() })
	return active, nil
}

func (r *membershipRepository) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.memberships[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Active = active
	r.db.memberships[id] = m
	return nil
}

type packageRepository struct{ db *DB }

// Packages returns the package repository of db.
func (db *DB) Packages() repository.PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) Create(_ context.Context, pkg *domain.Package) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	pkg.ID = primitive.NewObjectID()
	r.db.packages[pkg.ID] = *pkg
	return pkg.ID, nil
}

func (r *packageRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Package, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	pkg, ok := r.db.packages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &pkg, nil
}

func sortIDs(ids []primitive.ObjectID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
}
