package mongo

import (
	"context"
	"errors"
	"fmt"

	"ptrainer/backend/internal/invalidation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EventHandler consumes mutation events.
type EventHandler interface {
	Handle(ctx context.Context, event invalidation.Event) error
}

// watchedCollections maps the collections whose writes affect cached data to their event kind.
var watchedCollections = map[string]invalidation.Kind{
	membershipCollectionName:  invalidation.KindMembership,
	clientCollectionName:      invalidation.KindClient,
	planCollectionName:        invalidation.KindPlan,
	exerciseCollectionName:    invalidation.KindExercise,
	foodCollectionName:        invalidation.KindFood,
	performanceCollectionName: invalidation.KindClient,
}

type changeEvent struct {
	OperationType string `bson:"operationType"`
	Namespace     struct {
		Collection string `bson:"coll"`
	} `bson:"ns"`
	DocumentKey struct {
		ID primitive.ObjectID `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument bson.Raw `bson:"fullDocument,omitempty"`
}

// ChangeWatcher turns database change-stream notifications into invalidation
// events, so writes made outside this service still reach the caches.
// Requires a replica set or sharded cluster.
type ChangeWatcher struct {
	db      *mongo.Database
	handler EventHandler
	logger  *zap.Logger
}

func NewChangeWatcher(db *mongo.Database, handler EventHandler, logger *zap.Logger) *ChangeWatcher {
	return &ChangeWatcher{db: db, handler: handler, logger: logger}
}

// Run watches until ctx is cancelled. Handler failures are logged and do not stop the stream.
func (w *ChangeWatcher) Run(ctx context.Context) error {
	collections := make(bson.A, 0, len(watchedCollections))
	for name := range watchedCollections {
		collections = append(collections, name)
	}
	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.D{
		{Key: "ns.coll", Value: bson.D{{Key: "$in", Value: collections}}},
		{Key: "operationType", Value: bson.D{{Key: "$in", Value: bson.A{"insert", "update", "replace", "delete"}}}},
	}}}}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := w.db.Watch(ctx, pipeline, opts)
	if err != nil {
		return fmt.Errorf("open change stream: %w", err)
	}
	defer stream.Close(context.Background())
	w.logger.Info("change stream watcher started", zap.Int("collections", len(collections)))

	for stream.Next(ctx) {
		var change changeEvent
		if err := stream.Decode(&change); err != nil {
			w.logger.Warn("undecodable change event", zap.Error(err))
			continue
		}
		event, ok := toEvent(change)
		if !ok {
			continue
		}
		if err := w.handler.Handle(ctx, event); err != nil {
			w.logger.Warn("invalidation failed",
				zap.String("kind", string(event.Kind)),
				zap.String("id", event.ID.Hex()),
				zap.Error(err))
		}
	}
	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func toEvent(change changeEvent) (invalidation.Event, bool) {
	kind, ok := watchedCollections[change.Namespace.Collection]
	if !ok || change.DocumentKey.ID.IsZero() {
		return invalidation.Event{}, false
	}
	event := invalidation.Event{Kind: kind, ID: change.DocumentKey.ID}

	switch change.Namespace.Collection {
	case planCollectionName:
		if id, ok := lookupObjectID(change.FullDocument, "membershipId"); ok {
			event.MembershipID = id
		}
	case performanceCollectionName:
		// A new log changes the client's performance history.
		id, ok := lookupObjectID(change.FullDocument, "clientId")
		if !ok {
			return invalidation.Event{}, false
		}
		event.ID = id
	}
	return event, true
}

func lookupObjectID(doc bson.Raw, key string) (primitive.ObjectID, bool) {
	if len(doc) == 0 {
		return primitive.NilObjectID, false
	}
	value, err := doc.LookupErr(key)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return value.ObjectIDOK()
}
