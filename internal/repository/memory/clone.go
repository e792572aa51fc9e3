package memory

import "ptrainer/backend/internal/domain"

// Values are cloned on the way in and out so callers never alias stored state.

func cloneMembership(m domain.Membership) domain.Membership {
	if m.Start != nil {
		start := *m.Start
		m.Start = &start
	}
	if m.End != nil {
		end := *m.End
		m.End = &end
	}
	return m
}

func cloneClient(c domain.Client) domain.Client {
	c.Weight = append([]domain.WeightEntry(nil), c.Weight...)
	if c.DateOfBirth != nil {
		dob := *c.DateOfBirth
		c.DateOfBirth = &dob
	}
	return c
}

func clonePlan(p domain.Plan) domain.Plan {
	for i := range p.Days {
		p.Days[i].Exercises = append([]domain.ExerciseItem(nil), p.Days[i].Exercises...)
		p.Days[i].Foods = append([]domain.FoodItem(nil), p.Days[i].Foods...)
	}
	return p
}

func cloneExercise(e domain.Exercise) domain.Exercise {
	e.SecondaryMuscles = append([]string(nil), e.SecondaryMuscles...)
	return e
}

func cloneFood(f domain.Food) domain.Food {
	f.NutritionalFacts = append([]domain.NutritionalFact(nil), f.NutritionalFacts...)
	return f
}
