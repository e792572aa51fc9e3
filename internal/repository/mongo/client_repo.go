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

// mongoClientRepository implements repository.ClientRepository
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new Client repository backed by MongoDB.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.Name == "" {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	client.ID = primitive.NewObjectID()
	ts := now()
	client.CreatedAt = ts
	client.UpdatedAt = ts
	if client.Weight == nil {
		client.Weight = []domain.WeightEntry{}
	}

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// Update replaces the whole client document, keeping createdAt and stamping updatedAt.
func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	if client.ID == primitive.NilObjectID {
		return errors.New("client ID is required for update")
	}
	client.UpdatedAt = now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": client.ID}, client)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
