package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invoice is the primary document kind. Master data (supplier, project) is
// referenced by id only; this engine cares about identity and location.
type Invoice struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Number              string              `bson:"number" json:"number"`
	SupplierID          primitive.ObjectID  `bson:"supplier_id" json:"supplier_id"`
	ProjectID           *primitive.ObjectID `bson:"project_id,omitempty" json:"project_id,omitempty"`
	Amount              float64             `bson:"amount" json:"amount"`
	Currency            string              `bson:"currency" json:"currency"`
	CurrentLocationCode string              `bson:"current_location_code" json:"current_location_code"`
	CreatedAt           time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time           `bson:"updated_at" json:"updated_at"`
}

// SupportingDocument is the secondary kind. When InvoiceID is set it travels
// with that invoice as a companion.
type SupportingDocument struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name                string              `bson:"name" json:"name"`
	Number              string              `bson:"number" json:"number"`
	InvoiceID           *primitive.ObjectID `bson:"invoice_id,omitempty" json:"invoice_id,omitempty"`
	CurrentLocationCode string              `bson:"current_location_code" json:"current_location_code"`
	CreatedAt           time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time           `bson:"updated_at" json:"updated_at"`
}
