package service

import (
	"context"
	"testing"

	"ptrainer/backend/internal/cache"
	"ptrainer/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpdateExercise_DropsLibraryEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exercise, err := f.libraryItem.CreateExercise(ctx, &domain.Exercise{Name: "Squat"})
	require.NoError(t, err)
	f.library.Put(ctx, cache.ItemExercise, exercise.ID, domain.ExerciseReference{Name: "Squat"})

	exercise.Name = "Back Squat"
	_, err = f.libraryItem.UpdateExercise(ctx, exercise)
	require.NoError(t, err)

	assert.False(t, f.library.Contains(ctx, cache.ItemExercise, exercise.ID))
	stored, err := f.libraryItem.GetExerciseByID(ctx, exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, "Back Squat", stored.Name)
}

func TestUpdateFood_DropsLibraryEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	food, err := f.libraryItem.CreateFood(ctx, &domain.Food{Title: "Oats"})
	require.NoError(t, err)
	f.library.Put(ctx, cache.ItemFood, food.ID, domain.FoodReference{Title: "Oats"})

	food.NutritionalFacts = []domain.NutritionalFact{{Nutrient: "Energy", Value: 379, Unit: "kcal"}}
	_, err = f.libraryItem.UpdateFood(ctx, food)
	require.NoError(t, err)

	assert.False(t, f.library.Contains(ctx, cache.ItemFood, food.ID))
}

func TestLibraryService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.libraryItem.CreateExercise(ctx, &domain.Exercise{})
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = f.libraryItem.UpdateFood(ctx, &domain.Food{ID: primitive.NewObjectID(), Title: "Rice"})
	assert.ErrorIs(t, err, ErrFoodNotFound)
	_, err = f.libraryItem.GetExerciseByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}
