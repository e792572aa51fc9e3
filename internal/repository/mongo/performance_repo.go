package mongo

import (
	"context"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoPerformanceRepository implements repository.PerformanceRepository
type mongoPerformanceRepository struct {
	collection *mongo.Collection
}

func NewMongoPerformanceRepository(db *mongo.Database) repository.PerformanceRepository {
	return &mongoPerformanceRepository{
		collection: db.Collection(performanceCollectionName),
	}
}

func (r *mongoPerformanceRepository) Create(ctx context.Context, log *domain.PerformanceLog) (primitive.ObjectID, error) {
	log.ID = primitive.NewObjectID()
	if log.Date.IsZero() {
		log.Date = now()
	}
	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// ListByExercises fetches a client's history for many exercises in one query, oldest first.
func (r *mongoPerformanceRepository) ListByExercises(ctx context.Context, clientID primitive.ObjectID, exerciseIDs []primitive.ObjectID) ([]domain.PerformanceLog, error) {
	if len(exerciseIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"clientId":   clientID,
		"exerciseId": bson.M{"$in": exerciseIDs},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.PerformanceLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func performanceIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "exerciseId", Value: 1}, {Key: "date", Value: 1}}},
	}
}
