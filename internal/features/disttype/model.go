package disttype

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DistributionType classifies a distribution (priority/handling class).
// Its code is the TYPE_CODE segment of generated distribution numbers.
type DistributionType struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Code      string             `bson:"code" json:"code"`
	Priority  int                `bson:"priority" json:"priority"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
