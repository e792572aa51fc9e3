package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeightEntry is one row of a client's append-only weight history.
type WeightEntry struct {
	Weight float64   `bson:"weight" json:"weight"`
	Date   time.Time `bson:"date" json:"date"`
}

// Client holds the physical profile of a trainee and the targets derived from it.
type Client struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"client_name"`
	Enabled       bool               `bson:"enabled" json:"enabled"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	Mobile        string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Nationality   string             `bson:"nationality,omitempty" json:"nationality,omitempty"`
	DateOfBirth   *time.Time         `bson:"dateOfBirth,omitempty" json:"date_of_birth,omitempty"`
	Age           int                `bson:"age,omitempty" json:"age,omitempty"`
	Gender        string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Height        float64            `bson:"height,omitempty" json:"height,omitempty"`
	Weight        []WeightEntry      `bson:"weight" json:"weight"`
	ActivityLevel string             `bson:"activityLevel,omitempty" json:"activity_level,omitempty"`
	Goal          string             `bson:"goal,omitempty" json:"goal,omitempty"`
	TargetWeight  float64            `bson:"targetWeight,omitempty" json:"target_weight,omitempty"`
	Meals         int                `bson:"meals,omitempty" json:"meals,omitempty"`
	Workouts      int                `bson:"workouts,omitempty" json:"workouts,omitempty"`
	Equipment     string             `bson:"equipment,omitempty" json:"equipment,omitempty"`

	// Computed targets. Recomputed elsewhere unless Adjust is set.
	BMI            float64 `bson:"bmi,omitempty" json:"bmi,omitempty"`
	BMR            float64 `bson:"bmr,omitempty" json:"bmr,omitempty"`
	TDEE           float64 `bson:"tdee,omitempty" json:"tdee,omitempty"`
	TargetEnergy   float64 `bson:"targetEnergy,omitempty" json:"target_energy,omitempty"`
	TargetProteins float64 `bson:"targetProteins,omitempty" json:"target_proteins,omitempty"`
	TargetCarbs    float64 `bson:"targetCarbs,omitempty" json:"target_carbs,omitempty"`
	TargetFats     float64 `bson:"targetFats,omitempty" json:"target_fats,omitempty"`
	TargetWater    float64 `bson:"targetWater,omitempty" json:"target_water,omitempty"`
	Adjust         bool    `bson:"adjust" json:"adjust"`
	Factor         float64 `bson:"factor,omitempty" json:"factor,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy string    `bson:"updatedBy" json:"updatedBy"`
}

// CurrentWeight returns the last recorded weight, or nil when none was recorded.
func (c *Client) CurrentWeight() *float64 {
	if len(c.Weight) == 0 {
		return nil
	}
	w := c.Weight[len(c.Weight)-1].Weight
	return &w
}

// PerformanceLog records one logged set of an exercise by a client.
type PerformanceLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Weight     float64            `bson:"weight" json:"weight"`
	Reps       int                `bson:"reps" json:"reps"`
	Date       time.Time          `bson:"date" json:"date"`
}
