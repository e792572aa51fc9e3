package aggregation

import (
	"context"

	"ptrainer/backend/internal/cache"
	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/nutrition"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (p *Pipeline) resolveExercises(ctx context.Context, log *zap.Logger, ids []primitive.ObjectID) map[string]domain.ExerciseReference {
	refs := make(map[string]domain.ExerciseReference, len(ids))
	for _, id := range ids {
		var ref domain.ExerciseReference
		if p.library.Get(ctx, cache.ItemExercise, id, &ref) {
			refs[id.Hex()] = ref
			continue
		}
		exercise, err := p.exercises.GetByID(ctx, id)
		if err != nil {
			log.Warn("skipping exercise reference", zap.String("exercise", id.Hex()), zap.Error(err))
			continue
		}
		ref = ExerciseReference(exercise)
		p.library.Put(ctx, cache.ItemExercise, id, ref)
		refs[id.Hex()] = ref
	}
	return refs
}

func (p *Pipeline) resolveFoods(ctx context.Context, log *zap.Logger, ids []primitive.ObjectID) map[string]domain.FoodReference {
	refs := make(map[string]domain.FoodReference, len(ids))
	for _, id := range ids {
		var ref domain.FoodReference
		if p.library.Get(ctx, cache.ItemFood, id, &ref) {
			refs[id.Hex()] = ref
			continue
		}
		food, err := p.foods.GetByID(ctx, id)
		if err != nil {
			log.Warn("skipping food reference", zap.String("food", id.Hex()), zap.Error(err))
			continue
		}
		ref = p.foodReference(log, food)
		p.library.Put(ctx, cache.ItemFood, id, ref)
		refs[id.Hex()] = ref
	}
	return refs
}

// ExerciseReference projects a library exercise into its reference form.
func ExerciseReference(e *domain.Exercise) domain.ExerciseReference {
	muscles := e.SecondaryMuscles
	if muscles == nil {
		muscles = []string{}
	}
	return domain.ExerciseReference{
		Name:             e.Name,
		Category:         e.Category,
		Equipment:        e.Equipment,
		Force:            e.Force,
		Mechanic:         e.Mechanic,
		Level:            e.Level,
		PrimaryMuscle:    e.PrimaryMuscle,
		SecondaryMuscles: muscles,
		Thumbnail:        e.Thumbnail,
		Starting:         e.Starting,
		Ending:           e.Ending,
		Video:            e.Video,
		Instructions:     e.Instructions,
	}
}

func (p *Pipeline) foodReference(log *zap.Logger, f *domain.Food) domain.FoodReference {
	base, problems := nutrition.Base(f, p.variants)
	for _, problem := range problems {
		log.Warn("partial nutrition data", zap.Error(problem))
	}
	return domain.FoodReference{
		Title:            f.Title,
		Image:            f.Image,
		Category:         f.Category,
		Description:      f.Description,
		NutritionPer100g: base,
	}
}

// FoodReferences resolves foods through the library cache. Foods that cannot
// be loaded are absent from the result.
func (p *Pipeline) FoodReferences(ctx context.Context, ids []primitive.ObjectID) map[string]domain.FoodReference {
	return p.resolveFoods(ctx, p.logger, unique(append([]primitive.ObjectID(nil), ids...)))
}
