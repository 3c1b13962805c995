package department

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department is master data owned elsewhere; the engine only reads it for
// origin checks, relocation targets and the numbering scheme.
type Department struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	LocationCode string             `bson:"location_code" json:"location_code"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
