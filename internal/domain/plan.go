package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus is derived from today's date against the plan week.
type PlanStatus string

const (
	PlanStatusScheduled PlanStatus = "Scheduled"
	PlanStatusActive    PlanStatus = "Active"
	PlanStatusCompleted PlanStatus = "Completed"
)

// DaysPerPlan is the fixed length of a plan: one Monday..Sunday week.
const DaysPerPlan = 7

// ExerciseItem is one exercise line on a plan day.
type ExerciseItem struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets       int                `bson:"sets" json:"sets"`
	Reps       int                `bson:"reps" json:"reps"`
	Rest       int                `bson:"rest" json:"rest"`
	Superset   bool               `bson:"superset" json:"superset"` // performed back-to-back with neighbours
}

// FoodItem is one food line on a plan day. Amount is in grams.
type FoodItem struct {
	FoodID primitive.ObjectID `bson:"foodId" json:"foodId"`
	Meal   string             `bson:"meal" json:"meal"`
	Amount float64            `bson:"amount" json:"amount"`
}

// PlanDay holds the exercise and food tables of one weekday.
type PlanDay struct {
	Exercises []ExerciseItem `bson:"exercises" json:"exercises"`
	Foods     []FoodItem     `bson:"foods" json:"foods"`
	Rest      bool           `bson:"rest" json:"rest"`
}

type PlanTargets struct {
	Proteins float64 `bson:"proteins" json:"proteins"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fats     float64 `bson:"fats" json:"fats"`
	Energy   float64 `bson:"energy" json:"energy"`
	Water    float64 `bson:"water" json:"water"`
}

type PlanConfig struct {
	Equipment      string `bson:"equipment" json:"equipment"`
	Goal           string `bson:"goal" json:"goal"`
	WeeklyWorkouts int    `bson:"weeklyWorkouts" json:"weekly_workouts"`
	DailyMeals     int    `bson:"dailyMeals" json:"daily_meals"`
}

// Plan is a one-week training and meal plan inside a membership.
type Plan struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ClientID     primitive.ObjectID   `bson:"clientId" json:"clientId"`
	MembershipID primitive.ObjectID   `bson:"membershipId" json:"membershipId"`
	Title        string               `bson:"title" json:"title"`
	Start        time.Time            `bson:"start" json:"start"`
	End          time.Time            `bson:"end" json:"end"`
	Status       PlanStatus           `bson:"status" json:"status"`
	Targets      PlanTargets          `bson:"targets" json:"targets"`
	Config       PlanConfig           `bson:"config" json:"config"`
	Days         [DaysPerPlan]PlanDay `bson:"days" json:"days"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy    string               `bson:"updatedBy" json:"updatedBy"`
}

// PlanVersionSummary is the cheap projection of a membership's plan set used for versioning.
type PlanVersionSummary struct {
	Count         int
	LastUpdatedAt *time.Time
}

// StartOfWeek truncates t to midnight of the Monday of its week.
func StartOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday == 0
	return day.AddDate(0, 0, -offset)
}

// NextPlanWeek returns the Monday a new plan starts on. With a previous plan
// it is the Monday of the week after lastEnd; otherwise the first Monday on
// or after the membership start.
func NextPlanWeek(membershipStart time.Time, lastEnd *time.Time) time.Time {
	if lastEnd != nil {
		return StartOfWeek(lastEnd.AddDate(0, 0, 1))
	}
	first := StartOfWeek(membershipStart)
	startDay := time.Date(membershipStart.Year(), membershipStart.Month(), membershipStart.Day(), 0, 0, 0, 0, membershipStart.Location())
	if first.Before(startDay) {
		return first.AddDate(0, 0, 7)
	}
	return first
}

// StatusAt derives the plan status for the given day.
func StatusAt(start, end, now time.Time) PlanStatus {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, start.Location())
	switch {
	case today.Before(start):
		return PlanStatusScheduled
	case today.After(end):
		return PlanStatusCompleted
	default:
		return PlanStatusActive
	}
}

// Schedule fills Start, End, Status and the rest-day flags.
func (p *Plan) Schedule(start, now time.Time) {
	p.Start = start
	p.End = start.AddDate(0, 0, DaysPerPlan-1)
	p.Status = StatusAt(p.Start, p.End, now)
	p.applyRestDays()
}

// applyRestDays marks the tail of the week as rest for 3..6 weekly workouts.
// Flags are always recomputed from scratch.
func (p *Plan) applyRestDays() {
	for day := range p.Days {
		p.Days[day].Rest = false
	}
	w := p.Config.WeeklyWorkouts
	if w < 3 || w > 6 {
		return
	}
	for day := w; day < DaysPerPlan; day++ {
		p.Days[day].Rest = true
	}
}

// BuildTitle renders "<First><L>@dd/MM-dd/MM#YY" from the client name and the plan week.
func (p *Plan) BuildTitle(clientName string) {
	parts := strings.Fields(clientName)
	first, lastInitial := "", ""
	if len(parts) > 0 {
		first = parts[0]
	}
	if len(parts) > 1 {
		initial, _ := utf8.DecodeRuneInString(parts[len(parts)-1])
		lastInitial = string(unicode.ToUpper(initial))
	}
	p.Title = fmt.Sprintf("%s%s@%s-%s#%s", first, lastInitial,
		p.Start.Format("02/01"), p.End.Format("02/01"), p.Start.Format("06"))
}

// ExerciseIDs returns every exercise reference on the plan, in day order, with repeats.
func (p *Plan) ExerciseIDs() []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, day := range p.Days {
		for _, item := range day.Exercises {
			ids = append(ids, item.ExerciseID)
		}
	}
	return ids
}

// FoodIDs returns every food reference on the plan, in day order, with repeats.
func (p *Plan) FoodIDs() []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, day := range p.Days {
		for _, item := range day.Foods {
			ids = append(ids, item.FoodID)
		}
	}
	return ids
}
