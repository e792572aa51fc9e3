// Package memory provides in-process implementations of the repository
// interfaces. They back the "memory" database driver and the unit tests.
package memory

import (
	"sync"
	"time"

	"ptrainer/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DB holds every collection behind one lock.
type DB struct {
	mu   sync.RWMutex
	now  func() time.Time
	last time.Time

	memberships map[primitive.ObjectID]domain.Membership
	packages    map[primitive.ObjectID]domain.Package
	clients     map[primitive.ObjectID]domain.Client
	plans       map[primitive.ObjectID]domain.Plan
	exercises   map[primitive.ObjectID]domain.Exercise
	foods       map[primitive.ObjectID]domain.Food
	performance map[primitive.ObjectID]domain.PerformanceLog
}

// NewDB creates an empty database. clock defaults to time.Now.
func NewDB(clock func() time.Time) *DB {
	if clock == nil {
		clock = time.Now
	}
	return &DB{
		now:         clock,
		memberships: make(map[primitive.ObjectID]domain.Membership),
		packages:    make(map[primitive.ObjectID]domain.Package),
		clients:     make(map[primitive.ObjectID]domain.Client),
		plans:       make(map[primitive.ObjectID]domain.Plan),
		exercises:   make(map[primitive.ObjectID]domain.Exercise),
		foods:       make(map[primitive.ObjectID]domain.Food),
		performance: make(map[primitive.ObjectID]domain.PerformanceLog),
	}
}

// stamp returns the write timestamp, truncated like MongoDB stores it and
// strictly increasing so consecutive writes never share a timestamp.
// Callers hold the write lock.
func (db *DB) stamp() time.Time {
	ts := db.now().UTC().Truncate(time.Millisecond)
	if !ts.After(db.last) {
		ts = db.last.Add(time.Millisecond)
	}
	db.last = ts
	return ts
}
