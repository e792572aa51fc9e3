package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Package is a purchasable training package. Duration is stored in seconds.
type Package struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Duration int64              `bson:"duration" json:"duration"`
}

// Membership links a Client to a Package for a bounded time window.
type Membership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	PackageID primitive.ObjectID `bson:"packageId" json:"packageId"`
	Start     *time.Time         `bson:"start,omitempty" json:"start,omitempty"`
	End       *time.Time         `bson:"end,omitempty" json:"end,omitempty"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy string             `bson:"updatedBy" json:"updatedBy"`
}

// ApplyPackage recomputes the membership window from a package duration.
// An unset start defaults to now.
func (m *Membership) ApplyPackage(pkg *Package, now time.Time) {
	m.PackageID = pkg.ID
	if pkg.Duration <= 0 {
		return
	}
	if m.Start == nil {
		start := now
		m.Start = &start
	}
	end := m.Start.Add(time.Duration(pkg.Duration) * time.Second)
	m.End = &end
}

// RefreshActive sets Active from the [Start, End] window.
func (m *Membership) RefreshActive(now time.Time) {
	if m.Start == nil || m.End == nil {
		return
	}
	m.Active = !now.Before(*m.Start) && !now.After(*m.End)
}

// Expired reports whether the membership window closed before now.
func (m *Membership) Expired(now time.Time) bool {
	return m.End != nil && now.After(*m.End)
}
