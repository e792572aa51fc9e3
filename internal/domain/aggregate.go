package domain

import "time"

// Macro is one of the four canonical macro nutrients.
type Macro string

const (
	MacroEnergy  Macro = "energy"
	MacroProtein Macro = "protein"
	MacroCarbs   Macro = "carbs"
	MacroFat     Macro = "fat"
)

// Macros lists the canonical macros in display order.
var Macros = []Macro{MacroEnergy, MacroProtein, MacroCarbs, MacroFat}

// DefaultUnits is the unit each macro is reported in.
var DefaultUnits = map[Macro]string{
	MacroEnergy:  "kcal",
	MacroProtein: "g",
	MacroCarbs:   "g",
	MacroFat:     "g",
}

type NutritionValue struct {
	Value float64 `bson:"value" json:"value"`
	Unit  string  `bson:"unit" json:"unit"`
}

// Nutrition maps a macro to its amount. A macro absent from the source data is absent from the map.
type Nutrition map[Macro]NutritionValue

// Aggregate is the fully assembled membership payload served by the read API.
type Aggregate struct {
	Membership MembershipSummary `bson:"membership" json:"membership"`
	Client     ClientSummary     `bson:"client" json:"client"`
	Plans      []PlanView        `bson:"plans" json:"plans"`
	References References        `bson:"references" json:"references"`
}

type MembershipSummary struct {
	ID        string     `bson:"id" json:"name"`
	PackageID string     `bson:"packageId" json:"package"`
	ClientID  string     `bson:"clientId" json:"client"`
	Start     *time.Time `bson:"start,omitempty" json:"start,omitempty"`
	End       *time.Time `bson:"end,omitempty" json:"end,omitempty"`
	Active    bool       `bson:"active" json:"active"`
}

// ClientSummary is the client projection without target fields or performance history.
type ClientSummary struct {
	ID            string        `bson:"id" json:"name"`
	Name          string        `bson:"name" json:"client_name"`
	Enabled       bool          `bson:"enabled" json:"enabled"`
	Image         string        `bson:"image,omitempty" json:"image,omitempty"`
	Email         string        `bson:"email,omitempty" json:"email,omitempty"`
	Mobile        string        `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Nationality   string        `bson:"nationality,omitempty" json:"nationality,omitempty"`
	DateOfBirth   *time.Time    `bson:"dateOfBirth,omitempty" json:"date_of_birth,omitempty"`
	Age           int           `bson:"age,omitempty" json:"age,omitempty"`
	Gender        string        `bson:"gender,omitempty" json:"gender,omitempty"`
	Height        float64       `bson:"height,omitempty" json:"height,omitempty"`
	ActivityLevel string        `bson:"activityLevel,omitempty" json:"activity_level,omitempty"`
	Goal          string        `bson:"goal,omitempty" json:"goal,omitempty"`
	TargetWeight  float64       `bson:"targetWeight,omitempty" json:"target_weight,omitempty"`
	Meals         int           `bson:"meals,omitempty" json:"meals,omitempty"`
	Workouts      int           `bson:"workouts,omitempty" json:"workouts,omitempty"`
	Equipment     string        `bson:"equipment,omitempty" json:"equipment,omitempty"`
	BMI           float64       `bson:"bmi,omitempty" json:"bmi,omitempty"`
	BMR           float64       `bson:"bmr,omitempty" json:"bmr,omitempty"`
	TDEE          float64       `bson:"tdee,omitempty" json:"tdee,omitempty"`
	Adjust        bool          `bson:"adjust" json:"adjust"`
	Factor        float64       `bson:"factor,omitempty" json:"factor,omitempty"`
	Weight        []WeightEntry `bson:"weight" json:"weight"`
	CurrentWeight *float64      `bson:"currentWeight,omitempty" json:"current_weight"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"modified"`
}

type PlanView struct {
	ID      string      `bson:"id" json:"plan_name"`
	Title   string      `bson:"title" json:"title"`
	Start   time.Time   `bson:"start" json:"start"`
	End     time.Time   `bson:"end" json:"end"`
	Status  PlanStatus  `bson:"status" json:"status"`
	Targets PlanTargets `bson:"targets" json:"targets"`
	Config  PlanConfig  `bson:"config" json:"config"`
	Days    []DayView   `bson:"days" json:"days"`
}

type DayView struct {
	Day       int             `bson:"day" json:"day"`
	Rest      bool            `bson:"rest" json:"rest"`
	Exercises []ExerciseGroup `bson:"exercises" json:"exercises"`
	Foods     []FoodView      `bson:"foods" json:"foods"`
	Totals    Nutrition       `bson:"totals" json:"totals"`
}

// GroupType distinguishes standalone exercises from supersets.
type GroupType string

const (
	GroupRegular  GroupType = "regular"
	GroupSuperset GroupType = "superset"
)

// ExerciseGroup is either a single regular exercise or a run of superset exercises.
type ExerciseGroup struct {
	Type      GroupType      `bson:"type" json:"type"`
	Exercise  *ExerciseView  `bson:"exercise,omitempty" json:"exercise,omitempty"`
	Exercises []ExerciseView `bson:"exercises,omitempty" json:"exercises,omitempty"`
}

type ExerciseView struct {
	Ref  string `bson:"ref" json:"ref"`
	Sets int    `bson:"sets" json:"sets"`
	Reps int    `bson:"reps" json:"reps"`
	Rest int    `bson:"rest" json:"rest"`
}

type FoodView struct {
	Meal      string    `bson:"meal" json:"meal"`
	Ref       string    `bson:"ref" json:"ref"`
	Amount    float64   `bson:"amount" json:"amount"`
	Nutrition Nutrition `bson:"nutrition,omitempty" json:"nutrition"`
}

// References holds the deduplicated library data the plans point at, keyed by hex id.
type References struct {
	Exercises   map[string]ExerciseReference  `bson:"exercises" json:"exercises"`
	Foods       map[string]FoodReference      `bson:"foods" json:"foods"`
	Performance map[string][]PerformanceEntry `bson:"performance" json:"performance"`
}

type ExerciseReference struct {
	Name             string   `bson:"name" json:"name"`
	Category         string   `bson:"category" json:"category"`
	Equipment        string   `bson:"equipment" json:"equipment"`
	Force            string   `bson:"force" json:"force"`
	Mechanic         string   `bson:"mechanic" json:"mechanic"`
	Level            string   `bson:"level" json:"level"`
	PrimaryMuscle    string   `bson:"primaryMuscle" json:"primary_muscle"`
	SecondaryMuscles []string `bson:"secondaryMuscles" json:"secondary_muscles"`
	Thumbnail        string   `bson:"thumbnail" json:"thumbnail"`
	Starting         string   `bson:"starting" json:"starting"`
	Ending           string   `bson:"ending" json:"ending"`
	Video            string   `bson:"video" json:"video"`
	Instructions     string   `bson:"instructions" json:"instructions"`
}

type FoodReference struct {
	Title            string    `bson:"title" json:"title"`
	Image            string    `bson:"image" json:"image"`
	Category         string    `bson:"category" json:"category"`
	Description      string    `bson:"description" json:"description"`
	NutritionPer100g Nutrition `bson:"nutritionPer100g,omitempty" json:"nutrition_per_100g,omitempty"`
}

type PerformanceEntry struct {
	Weight float64   `bson:"weight" json:"weight"`
	Reps   int       `bson:"reps" json:"reps"`
	Date   time.Time `bson:"date" json:"date"`
}
