package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NutritionalFact is one raw nutrient row as imported from the data source.
// Nutrient names are free text and not canonical.
type NutritionalFact struct {
	Nutrient string  `bson:"nutrient" json:"nutrient"`
	Value    float64 `bson:"value" json:"value"`
	Unit     string  `bson:"unit" json:"unit"`
}

// Food represents a food item in the shared library. Facts are per 100g.
type Food struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Image            string             `bson:"image,omitempty" json:"image,omitempty"`
	Category         string             `bson:"category,omitempty" json:"category,omitempty"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	NutritionalFacts []NutritionalFact  `bson:"nutritionalFacts" json:"nutritionalFacts"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
