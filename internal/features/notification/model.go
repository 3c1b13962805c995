package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a department-scoped inbox entry produced by distribution
// lifecycle events. The websocket push carries the same payload.
type Notification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DepartmentID   primitive.ObjectID `bson:"department_id" json:"department_id"`
	DistributionID primitive.ObjectID `bson:"distribution_id" json:"distribution_id"`
	Number         string             `bson:"number" json:"number"`
	Action         string             `bson:"action" json:"action"`
	Title          string             `bson:"title" json:"title"`
	Message        string             `bson:"message" json:"message"`
	ActorID        string             `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	IsRead         bool               `bson:"is_read" json:"is_read"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	ReadAt         *time.Time         `bson:"read_at,omitempty" json:"read_at,omitempty"`
}
