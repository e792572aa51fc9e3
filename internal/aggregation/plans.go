package aggregation

import (
	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/nutrition"
)

func planView(plan *domain.Plan, foods map[string]domain.FoodReference) domain.PlanView {
	days := make([]domain.DayView, 0, domain.DaysPerPlan)
	for i, day := range plan.Days {
		days = append(days, dayView(i+1, day, foods))
	}
	return domain.PlanView{
		ID:      plan.ID.Hex(),
		Title:   plan.Title,
		Start:   plan.Start,
		End:     plan.End,
		Status:  plan.Status,
		Targets: plan.Targets,
		Config:  plan.Config,
		Days:    days,
	}
}

func dayView(number int, day domain.PlanDay, foods map[string]domain.FoodReference) domain.DayView {
	items := make([]domain.FoodView, 0, len(day.Foods))
	amounts := make([]domain.Nutrition, 0, len(day.Foods))
	for _, item := range day.Foods {
		view := domain.FoodView{Meal: item.Meal, Ref: item.FoodID.Hex(), Amount: item.Amount}
		if ref, ok := foods[view.Ref]; ok && len(ref.NutritionPer100g) > 0 {
			view.Nutrition = nutrition.Scale(ref.NutritionPer100g, item.Amount)
			amounts = append(amounts, view.Nutrition)
		}
		items = append(items, view)
	}
	return domain.DayView{
		Day:       number,
		Rest:      day.Rest,
		Exercises: GroupExercises(day.Exercises),
		Foods:     items,
		Totals:    nutrition.Totals(amounts),
	}
}

// GroupExercises folds consecutive superset-flagged items into one superset
// group. Unflagged items stand alone, and an unflagged item closes any open superset.
func GroupExercises(items []domain.ExerciseItem) []domain.ExerciseGroup {
	groups := make([]domain.ExerciseGroup, 0, len(items))
	var open []domain.ExerciseView
	flush := func() {
		if len(open) > 0 {
			groups = append(groups, domain.ExerciseGroup{Type: domain.GroupSuperset, Exercises: open})
			open = nil
		}
	}
	for _, item := range items {
		view := domain.ExerciseView{Ref: item.ExerciseID.Hex(), Sets: item.Sets, Reps: item.Reps, Rest: item.Rest}
		if item.Superset {
			open = append(open, view)
			continue
		}
		flush()
		groups = append(groups, domain.ExerciseGroup{Type: domain.GroupRegular, Exercise: &view})
	}
	flush()
	return groups
}
