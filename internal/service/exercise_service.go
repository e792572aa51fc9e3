package service

import (
	"context"
	"errors"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrFoodNotFound     = errors.New("food not found")
	ErrValidationFailed = errors.New("library item validation failed")
)

// LibraryInvalidator is notified after a library item is written.
type LibraryInvalidator interface {
	ExerciseChanged(ctx context.Context, exerciseID primitive.ObjectID) error
	FoodChanged(ctx context.Context, foodID primitive.ObjectID) error
}

// --- Service Interface ---
type LibraryService interface {
	CreateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error)
	CreateFood(ctx context.Context, food *domain.Food) (*domain.Food, error)
	GetFoodByID(ctx context.Context, foodID primitive.ObjectID) (*domain.Food, error)
	UpdateFood(ctx context.Context, food *domain.Food) (*domain.Food, error)
}

// --- Service Implementation ---

// libraryService implements the LibraryService interface.
type libraryService struct {
	exerciseRepo repository.ExerciseRepository
	foodRepo     repository.FoodRepository
	invalidator  LibraryInvalidator
	logger       *zap.Logger
}

// NewLibraryService creates a new instance of libraryService.
func NewLibraryService(
	exerciseRepo repository.ExerciseRepository,
	foodRepo repository.FoodRepository,
	invalidator LibraryInvalidator,
	logger *zap.Logger,
) LibraryService {
	return &libraryService{
		exerciseRepo: exerciseRepo,
		foodRepo:     foodRepo,
		invalidator:  invalidator,
		logger:       logger,
	}
}

// CreateExercise imports a new exercise into the library.
func (s *libraryService) CreateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error) {
	if exercise.Name == "" {
		return nil, ErrValidationFailed
	}
	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

func (s *libraryService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// UpdateExercise replaces an exercise's descriptive fields and drops its library cache entry.
func (s *libraryService) UpdateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error) {
	if exercise.Name == "" {
		return nil, ErrValidationFailed
	}
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if err := s.invalidator.ExerciseChanged(ctx, exercise.ID); err != nil {
		s.logger.Warn("exercise cache invalidation failed", zap.String("exercise", exercise.ID.Hex()), zap.Error(err))
	}
	return exercise, nil
}

// CreateFood imports a new food into the library.
func (s *libraryService) CreateFood(ctx context.Context, food *domain.Food) (*domain.Food, error) {
	if food.Title == "" {
		return nil, ErrValidationFailed
	}
	foodID, err := s.foodRepo.Create(ctx, food)
	if err != nil {
		return nil, err
	}
	return s.foodRepo.GetByID(ctx, foodID)
}

func (s *libraryService) GetFoodByID(ctx context.Context, foodID primitive.ObjectID) (*domain.Food, error) {
	food, err := s.foodRepo.GetByID(ctx, foodID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	return food, nil
}

// UpdateFood replaces a food's fields and drops its library cache entry.
func (s *libraryService) UpdateFood(ctx context.Context, food *domain.Food) (*domain.Food, error) {
	if food.Title == "" {
		return nil, ErrValidationFailed
	}
	if err := s.foodRepo.Update(ctx, food); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	if err := s.invalidator.FoodChanged(ctx, food.ID); err != nil {
		s.logger.Warn("food cache invalidation failed", zap.String("food", food.ID.Hex()), zap.Error(err))
	}
	return food, nil
}
