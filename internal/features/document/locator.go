package document

import (
	"context"
	"fmt"

	common_models "go-docdist/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// locationStore is the capability every document kind must provide.
type locationStore interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	CurrentLocation(ctx context.Context, id primitive.ObjectID) (string, error)
	Relocate(ctx context.Context, id primitive.ObjectID, locationCode string) error
}

// Companion is a supporting document that travels with an invoice.
type Companion struct {
	Ref          common_models.DocumentRef `json:"ref"`
	LocationCode string                    `json:"location_code"`
}

// Locator resolves polymorphic document references to the store owning them.
// All location reads and writes in the system go through here.
type Locator struct {
	stores     map[common_models.DocumentKind]locationStore
	supporting SupportingRepository
}

func NewLocator(invoices InvoiceRepository, supporting SupportingRepository) *Locator {
	return &Locator{
		stores: map[common_models.DocumentKind]locationStore{
			common_models.DocumentKindInvoice:    invoices,
			common_models.DocumentKindSupporting: supporting,
		},
		supporting: supporting,
	}
}

func (l *Locator) store(kind common_models.DocumentKind) (locationStore, error) {
	s, ok := l.stores[kind]
	if !ok {
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}
	return s, nil
}

func (l *Locator) Exists(ctx context.Context, ref common_models.DocumentRef) (bool, error) {
	s, err := l.store(ref.Kind)
	if err != nil {
		return false, err
	}
	return s.Exists(ctx, ref.DocumentID)
}

func (l *Locator) CurrentLocation(ctx context.Context, ref common_models.DocumentRef) (string, error) {
	s, err := l.store(ref.Kind)
	if err != nil {
		return "", err
	}
	return s.CurrentLocation(ctx, ref.DocumentID)
}

func (l *Locator) Relocate(ctx context.Context, ref common_models.DocumentRef, locationCode string) error {
	s, err := l.store(ref.Kind)
	if err != nil {
		return err
	}
	return s.Relocate(ctx, ref.DocumentID, locationCode)
}

// Companions lists the supporting documents linked to an invoice, with their
// current locations so callers can apply the origin-location rule.
func (l *Locator) Companions(ctx context.Context, invoiceID primitive.ObjectID) ([]Companion, error) {
	docs, err := l.supporting.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	companions := make([]Companion, 0, len(docs))
	for _, doc := range docs {
		companions = append(companions, Companion{
			Ref: common_models.DocumentRef{
				Kind:       common_models.DocumentKindSupporting,
				DocumentID: doc.ID,
			},
			LocationCode: doc.CurrentLocationCode,
		})
	}
	return companions, nil
}
