package memory

import (
	"context"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type clientRepository struct{ db *DB }

// Clients returns the client repository of db.
func (db *DB) Clients() repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(_ context.Context, client *domain.Client) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	client.ID = primitive.NewObjectID()
	ts := r.db.stamp()
	client.CreatedAt = ts
	client.UpdatedAt = ts
	r.db.clients[client.ID] = cloneClient(*client)
	return client.ID, nil
}

func (r *clientRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Client, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c = cloneClient(c)
	return &c, nil
}

func (r *clientRepository) Update(_ context.Context, client *domain.Client) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.clients[client.ID]
	if !ok {
		return repository.ErrNotFound
	}
	client.CreatedAt = stored.CreatedAt
	client.UpdatedAt = r.db.stamp()
	r.db.clients[client.ID] = cloneClient(*client)
	return nil
}
