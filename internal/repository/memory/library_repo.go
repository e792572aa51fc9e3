package memory

import (
	"context"
	"sort"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type exerciseRepository struct{ db *DB }

// Exercises returns the exercise library repository of db.
func (db *DB) Exercises() repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if exercise.ID.IsZero() {
		exercise.ID = primitive.NewObjectID()
	}
	ts := r.db.stamp()
	exercise.CreatedAt = ts
	exercise.UpdatedAt = ts
	r.db.exercises[exercise.ID] = cloneExercise(*exercise)
	return exercise.ID, nil
}

func (r *exerciseRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	e, ok := r.db.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e = cloneExercise(e)
	return &e, nil
}

func (r *exerciseRepository) Update(_ context.Context, exercise *domain.Exercise) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.exercises[exercise.ID]
	if !ok {
		return repository.ErrNotFound
	}
	exercise.CreatedAt = stored.CreatedAt
	exercise.UpdatedAt = r.db.stamp()
	r.db.exercises[exercise.ID] = cloneExercise(*exercise)
	return nil
}

type foodRepository struct{ db *DB }

// Foods returns the food library repository of db.
func (db *DB) Foods() repository.FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) Create(_ context.Context, food *domain.Food) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if food.ID.IsZero() {
		food.ID = primitive.NewObjectID()
	}
	ts := r.db.stamp()
	food.CreatedAt = ts
	food.UpdatedAt = ts
	r.db.foods[food.ID] = cloneFood(*food)
	return food.ID, nil
}

func (r *foodRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Food, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	f, ok := r.db.foods[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	f = cloneFood(f)
	return &f, nil
}

func (r *foodRepository) Update(_ context.Context, food *domain.Food) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.foods[food.ID]
	if !ok {
		return repository.ErrNotFound
	}
	food.CreatedAt = stored.CreatedAt
	food.UpdatedAt = r.db.stamp()
	r.db.foods[food.ID] = cloneFood(*food)
	return nil
}

type performanceRepository struct{ db *DB }

// Performance returns the performance log repository of db.
func (db *DB) Performance() repository.PerformanceRepository {
	return &performanceRepository{db: db}
}

func (r *performanceRepository) Create(_ context.Context, log *domain.PerformanceLog) (primitive.ObjectID, error) {
	if log.ClientID.IsZero() || log.ExerciseID.IsZero() {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	log.ID = primitive.NewObjectID()
	r.db.performance[log.ID] = *log
	return log.ID, nil
}

func (r *performanceRepository) ListByExercises(_ context.Context, clientID primitive.ObjectID, exerciseIDs []primitive.ObjectID) ([]domain.PerformanceLog, error) {
	if len(exerciseIDs) == 0 {
		return nil, nil
	}
	wanted := make(map[primitive.ObjectID]struct{}, len(exerciseIDs))
	for _, id := range exerciseIDs {
		wanted[id] = struct{}{}
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var logs []domain.PerformanceLog
	for _, l := range r.db.performance {
		if l.ClientID != clientID {
			continue
		}
		if _, ok := wanted[l.ExerciseID]; ok {
			logs = append(logs, l)
		}
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	return logs, nil
}
