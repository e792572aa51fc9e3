package mongo

import (
	"context"
	"errors"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoMembershipRepository implements repository.MembershipRepository
type mongoMembershipRepository struct {
	collection *mongo.Collection
}

// NewMongoMembershipRepository creates a new Membership repository backed by MongoDB.
func NewMongoMembershipRepository(db *mongo.Database) repository.MembershipRepository {
	return &mongoMembershipRepository{
		collection: db.Collection(membershipCollectionName),
	}
}

func (r *mongoMembershipRepository) Create(ctx context.Context, membership *domain.Membership) (primitive.ObjectID, error) {
	if membership.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	membership.ID = primitive.NewObjectID()
	ts := now()
	membership.CreatedAt = ts
	membership.UpdatedAt = ts

	result, err := r.collection.InsertOne(ctx, membership)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoMembershipRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Membership, error) {
	var membership domain.Membership
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&membership)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &membership, nil
}

// Update replaces the editable fields and stamps updatedAt.
func (r *mongoMembershipRepository) Update(ctx context.Context, membership *domain.Membership) error {
	membership.UpdatedAt = now()
	update := bson.M{
		"$set": bson.M{
			"packageId": membership.PackageID,
			"start":     membership.Start,
			"end":       membership.End,
			"active":    membership.Active,
			"updatedAt": membership.UpdatedAt,
			"updatedBy": membership.UpdatedBy,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": membership.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMembershipRepository) ListIDsByClient(ctx context.Context, clientID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *mongoMembershipRepository) ListActive(ctx context.Context) ([]domain.Membership, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "clientId": 1, "start": 1, "end": 1, "active": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var memberships []domain.Membership
	if err = cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// SetActive is a system correction: updatedAt and updatedBy are left alone.
func (r *mongoMembershipRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": active}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func membershipIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}}},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "end", Value: 1}}},
	}
}

// mongoPackageRepository implements repository.PackageRepository
type mongoPackageRepository struct {
	collection *mongo.Collection
}

func NewMongoPackageRepository(db *mongo.Database) repository.PackageRepository {
	return &mongoPackageRepository{collection: db.Collection(packageCollectionName)}
}

func (r *mongoPackageRepository) Create(ctx context.Context, pkg *domain.Package) (primitive.ObjectID, error) {
	pkg.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, pkg)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoPackageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Package, error) {
	var pkg domain.Package
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pkg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &pkg, nil
}
