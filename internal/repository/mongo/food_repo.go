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

// mongoFoodRepository implements repository.FoodRepository
type mongoFoodRepository struct {
	collection *mongo.Collection
}

// NewMongoFoodRepository creates a new Food repository backed by MongoDB.
func NewMongoFoodRepository(db *mongo.Database) repository.FoodRepository {
	return &mongoFoodRepository{
		collection: db.Collection(foodCollectionName),
	}
}

func (r *mongoFoodRepository) Create(ctx context.Context, food *domain.Food) (primitive.ObjectID, error) {
	if food.Title == "" {
		return primitive.NilObjectID, errors.New("food title is required")
	}
	food.ID = primitive.NewObjectID()
	ts := now()
	food.CreatedAt = ts
	food.UpdatedAt = ts

	result, err := r.collection.InsertOne(ctx, food)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoFoodRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Food, error) {
	var food domain.Food
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&food)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &food, nil
}

func (r *mongoFoodRepository) Update(ctx context.Context, food *domain.Food) error {
	if food.ID == primitive.NilObjectID {
		return errors.New("food ID is required for update")
	}
	food.UpdatedAt = now()

	update := bson.M{
		"$set": bson.M{
			"title":            food.Title,
			"image":            food.Image,
			"category":         food.Category,
			"description":      food.Description,
			"nutritionalFacts": food.NutritionalFacts,
			"updatedAt":        food.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": food.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
