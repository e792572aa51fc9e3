package mongo

import (
	"context"
	"errors"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the library.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}
	exercise.ID = primitive.NewObjectID()
	ts := now()
	exercise.CreatedAt = ts
	exercise.UpdatedAt = ts

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Update modifies the descriptive fields of an existing exercise.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}
	if exercise.Name == "" {
		return errors.New("exercise name cannot be empty")
	}
	exercise.UpdatedAt = now()

	update := bson.M{
		"$set": bson.M{
			"name":             exercise.Name,
			"category":         exercise.Category,
			"equipment":        exercise.Equipment,
			"force":            exercise.Force,
			"mechanic":         exercise.Mechanic,
			"level":            exercise.Level,
			"primaryMuscle":    exercise.PrimaryMuscle,
			"secondaryMuscles": exercise.SecondaryMuscles,
			"thumbnail":        exercise.Thumbnail,
			"starting":         exercise.Starting,
			"ending":           exercise.Ending,
			"video":            exercise.Video,
			"instructions":     exercise.Instructions,
			"updatedAt":        exercise.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound // Exercise with that ID didn't exist
	}
	return nil
}
