package history

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Action string

const (
	ActionCreated            Action = "created"
	ActionVerifiedBySender   Action = "verified_by_sender"
	ActionSent               Action = "sent"
	ActionReceived           Action = "received"
	ActionVerifiedByReceiver Action = "verified_by_receiver"
	ActionDiscrepancy        Action = "discrepancy"
	ActionCompleted          Action = "completed"
	ActionUpdated            Action = "updated"
	ActionAttached           Action = "attached"
	ActionDetached           Action = "detached"
)

// Entry is one append-only audit row. Entries are never updated or deleted,
// and survive soft deletion of their distribution.
type Entry struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DistributionID primitive.ObjectID `bson:"distribution_id" json:"distribution_id"`
	Action         Action             `bson:"action" json:"action"`
	ActorID        string             `bson:"actor_id" json:"actor_id"`
	ActorName      string             `bson:"-" json:"actor_name,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Metadata       map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
