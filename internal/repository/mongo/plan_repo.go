// internal/repository/mongo/plan_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new Plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.ClientID == primitive.NilObjectID || plan.MembershipID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires clientId and membershipId")
	}
	plan.ID = primitive.NewObjectID()
	ts := now()
	plan.CreatedAt = ts
	plan.UpdatedAt = ts

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// GetByID retrieves a single plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Update persists the editable plan fields. Client, membership and the week window are fixed at creation.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}
	plan.UpdatedAt = now()
	update := bson.M{
		"$set": bson.M{
			"title":     plan.Title,
			"status":    plan.Status,
			"targets":   plan.Targets,
			"config":    plan.Config,
			"days":      plan.Days,
			"updatedAt": plan.UpdatedAt,
			"updatedBy": plan.UpdatedBy,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPlanRepository) ListByMembership(ctx context.Context, membershipID primitive.ObjectID, excludeStatus domain.PlanStatus) ([]domain.Plan, error) {
	filter := bson.M{"membershipId": membershipID}
	if excludeStatus != "" {
		filter["status"] = bson.M{"$ne": excludeStatus}
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.Plan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *mongoPlanRepository) LatestByMembership(ctx context.Context, membershipID primitive.ObjectID) (*domain.Plan, error) {
	var plan domain.Plan
	opts := options.FindOne().SetSort(bson.D{{Key: "end", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"membershipId": membershipID}, opts).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *mongoPlanRepository) ListOpen(ctx context.Context) ([]domain.Plan, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": bson.M{"$ne": domain.PlanStatusCompleted}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.Plan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// SetStatus updates only the status field; updatedAt is left alone.
func (r *mongoPlanRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.PlanStatus) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// VersionSummary groups on the server so plan bodies never leave the database.
func (r *mongoPlanRepository) VersionSummary(ctx context.Context, membershipID primitive.ObjectID) (domain.PlanVersionSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"membershipId": membershipID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"last":  bson.M{"$max": "$updatedAt"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.PlanVersionSummary{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count int       `bson:"count"`
		Last  time.Time `bson:"last"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return domain.PlanVersionSummary{}, err
	}
	if len(rows) == 0 || rows[0].Count == 0 {
		return domain.PlanVersionSummary{}, nil
	}
	last := rows[0].Last.UTC()
	return domain.PlanVersionSummary{Count: rows[0].Count, LastUpdatedAt: &last}, nil
}

func planIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "membershipId", Value: 1}, {Key: "end", Value: -1}}},
		{Keys: bson.D{{Key: "membershipId", Value: 1}, {Key: "updatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
}
