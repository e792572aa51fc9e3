// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the shared library.
type Exercise struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Category         string             `bson:"category,omitempty" json:"category,omitempty"`
	Equipment        string             `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Force            string             `bson:"force,omitempty" json:"force,omitempty"`
	Mechanic         string             `bson:"mechanic,omitempty" json:"mechanic,omitempty"`
	Level            string             `bson:"level,omitempty" json:"level,omitempty"`
	PrimaryMuscle    string             `bson:"primaryMuscle,omitempty" json:"primaryMuscle,omitempty"`
	SecondaryMuscles []string           `bson:"secondaryMuscles,omitempty" json:"secondaryMuscles,omitempty"`
	Thumbnail        string             `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"` // URL or bucket object key
	Starting         string             `bson:"starting,omitempty" json:"starting,omitempty"`
	Ending           string             `bson:"ending,omitempty" json:"ending,omitempty"`
	Video            string             `bson:"video,omitempty" json:"video,omitempty"` // URL or bucket object key
	Instructions     string             `bson:"instructions,omitempty" json:"instructions,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
