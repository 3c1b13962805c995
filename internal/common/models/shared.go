package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

// DocumentKind discriminates the two document types the engine moves around.
type DocumentKind string

const (
	DocumentKindInvoice    DocumentKind = "invoice"
	DocumentKindSupporting DocumentKind = "supporting_document"
)

func (k DocumentKind) Valid() bool {
	return k == DocumentKindInvoice || k == DocumentKindSupporting
}

// DocumentRef is a tagged reference to one concrete document.
type DocumentRef struct {
	Kind       DocumentKind       `bson:"document_kind" json:"document_kind"`
	DocumentID primitive.ObjectID `bson:"document_id" json:"document_id"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	DepartmentID primitive.ObjectID `bson:"department_id" json:"department_id"`
	Status       string             `bson:"status" json:"status"` // active, inactive, suspended
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type Log struct {
	Message      string    `bson:"message" json:"message"`
	ActorID      string    `bson:"actor_id" json:"actor_id"`
	Caller       string    `bson:"caller" json:"caller"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
