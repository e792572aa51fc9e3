package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cacheDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// CacheStore is a cache.Store kept in a MongoDB collection so every replica
// shares one cache. A TTL index reaps expired entries; reads also check
// expiresAt because the TTL monitor only runs about once a minute.
type CacheStore struct {
	collection *mongo.Collection
}

func NewCacheStore(db *mongo.Database) *CacheStore {
	return &CacheStore{collection: db.Collection(cacheCollectionName)}
}

func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc cacheDocument
	filter := bson.M{"_id": key, "expiresAt": bson.M{"$gt": time.Now().UTC()}}
	err := s.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return doc.Value, true, nil
}

func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	doc := cacheDocument{Key: key, Value: value, ExpiresAt: time.Now().UTC().Add(ttl)}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *CacheStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}})
	return err
}

func cacheIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
}
