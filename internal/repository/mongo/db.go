package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names shared by repositories, the cache store and the change-stream watcher.
const (
	membershipCollectionName  = "memberships"
	packageCollectionName     = "packages"
	clientCollectionName      = "clients"
	planCollectionName        = "plans"
	exerciseCollectionName    = "exercises"
	foodCollectionName        = "foods"
	performanceCollectionName = "performance_logs"
	cacheCollectionName       = "cache_entries"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB and verifies it with a ping.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. Failures are logged, not fatal.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) {
	ensure := map[string][]mongo.IndexModel{
		membershipCollectionName:  membershipIndexes(),
		clientCollectionName:      nil,
		planCollectionName:        planIndexes(),
		performanceCollectionName: performanceIndexes(),
		cacheCollectionName:       cacheIndexes(),
	}
	for name, indexes := range ensure {
		if len(indexes) == 0 {
			continue
		}
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			logger.Warn("failed to create indexes", zap.String("collection", name), zap.Error(err))
		}
	}
}

// now is the write timestamp, truncated to the millisecond precision MongoDB stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func insertedObjectID(result *mongo.InsertOneResult) (primitive.ObjectID, error) {
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return id, nil
}
