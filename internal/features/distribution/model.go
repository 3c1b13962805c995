package distribution

import (
	"time"

	common_models "go-docdist/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status values form a single linear lifecycle. A distribution only ever
// moves forward through them.
type Status string

const (
	StatusDraft              Status = "draft"
	StatusVerifiedBySender   Status = "verified_by_sender"
	StatusSent               Status = "sent"
	StatusReceived           Status = "received"
	StatusVerifiedByReceiver Status = "verified_by_receiver"
	StatusCompleted          Status = "completed"
)

var statusRank = map[Status]int{
	StatusDraft:              0,
	StatusVerifiedBySender:   1,
	StatusSent:               2,
	StatusReceived:           3,
	StatusVerifiedByReceiver: 4,
	StatusCompleted:          5,
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns the position of s in the lifecycle order.
func (s Status) Rank() int {
	return statusRank[s]
}

// Next returns the status that follows s, or s itself for the terminal state.
func (s Status) Next() Status {
	switch s {
	case StatusDraft:
		return StatusVerifiedBySender
	case StatusVerifiedBySender:
		return StatusSent
	case StatusSent:
		return StatusReceived
	case StatusReceived:
		return StatusVerifiedByReceiver
	default:
		return StatusCompleted
	}
}

// VerificationStatus is the per-document outcome recorded at either end.
type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "verified"
	VerificationMissing  VerificationStatus = "missing"
	VerificationDamaged  VerificationStatus = "damaged"
)

func (v VerificationStatus) Valid() bool {
	return v == VerificationVerified || v == VerificationMissing || v == VerificationDamaged
}

// Discrepant reports whether the outcome counts as a discrepancy.
func (v VerificationStatus) Discrepant() bool {
	return v == VerificationMissing || v == VerificationDamaged
}

// Distribution is one workflow instance moving a batch of documents from the
// origin department to the destination department.
type Distribution struct {
	ID                      primitive.ObjectID         `bson:"_id,omitempty" json:"id"`
	Number                  string                     `bson:"number" json:"number"`
	TypeID                  primitive.ObjectID         `bson:"type_id" json:"type_id"`
	DocumentKind            common_models.DocumentKind `bson:"document_kind" json:"document_kind"`
	OriginDepartmentID      primitive.ObjectID         `bson:"origin_department_id" json:"origin_department_id"`
	DestinationDepartmentID primitive.ObjectID         `bson:"destination_department_id" json:"destination_department_id"`
	Status                  Status                     `bson:"status" json:"status"`
	Notes                   string                     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy               string                     `bson:"created_by" json:"created_by"`
	CreatedAt               time.Time                  `bson:"created_at" json:"created_at"`
	UpdatedAt               time.Time                  `bson:"updated_at" json:"updated_at"`

	SenderVerifiedAt *time.Time `bson:"sender_verified_at,omitempty" json:"sender_verified_at,omitempty"`
	SenderVerifiedBy string     `bson:"sender_verified_by,omitempty" json:"sender_verified_by,omitempty"`
	SenderNotes      string     `bson:"sender_notes,omitempty" json:"sender_notes,omitempty"`

	SentAt     *time.Time `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	ReceivedAt *time.Time `bson:"received_at,omitempty" json:"received_at,omitempty"`

	ReceiverVerifiedAt *time.Time `bson:"receiver_verified_at,omitempty" json:"receiver_verified_at,omitempty"`
	ReceiverVerifiedBy string     `bson:"receiver_verified_by,omitempty" json:"receiver_verified_by,omitempty"`
	ReceiverNotes      string     `bson:"receiver_notes,omitempty" json:"receiver_notes,omitempty"`
	HasDiscrepancies   bool       `bson:"has_discrepancies" json:"has_discrepancies"`

	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	DeletedAt   *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// DistributionDocument associates one concrete document with a distribution
// and carries its independent sender/receiver verification state.
type DistributionDocument struct {
	ID             primitive.ObjectID         `bson:"_id,omitempty" json:"id"`
	DistributionID primitive.ObjectID         `bson:"distribution_id" json:"distribution_id"`
	DocumentKind   common_models.DocumentKind `bson:"document_kind" json:"document_kind"`
	DocumentID     primitive.ObjectID         `bson:"document_id" json:"document_id"`

	SenderVerified bool               `bson:"sender_verified" json:"sender_verified"`
	SenderStatus   VerificationStatus `bson:"sender_status,omitempty" json:"sender_status,omitempty"`
	SenderNotes    string             `bson:"sender_notes,omitempty" json:"sender_notes,omitempty"`

	ReceiverVerified bool               `bson:"receiver_verified" json:"receiver_verified"`
	ReceiverStatus   VerificationStatus `bson:"receiver_status,omitempty" json:"receiver_status,omitempty"`
	ReceiverNotes    string             `bson:"receiver_notes,omitempty" json:"receiver_notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Ref returns the polymorphic reference of the associated document.
func (d DistributionDocument) Ref() common_models.DocumentRef {
	return common_models.DocumentRef{Kind: d.DocumentKind, DocumentID: d.DocumentID}
}

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	Status        Status
	OriginID      primitive.ObjectID
	DestinationID primitive.ObjectID
	TypeID        primitive.ObjectID
	CreatedBy     string
	CreatedFrom   time.Time
	CreatedTo     time.Time
	Page          int64
	Limit         int64
}

// DiscrepancyItem is one flagged document in a discrepancy summary.
type DiscrepancyItem struct {
	Ref    common_models.DocumentRef `json:"ref"`
	Status VerificationStatus        `json:"status"`
	Notes  string                    `json:"notes,omitempty"`
}

// ExcludedCompanion reports a companion document left out of a distribution
// because its current location did not match the declared origin.
type ExcludedCompanion struct {
	Ref          common_models.DocumentRef `json:"ref"`
	LocationCode string                    `json:"location_code"`
	Reason       string                    `json:"reason"`
}
