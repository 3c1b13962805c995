package document

import (
	"context"
	"time"

	"go-docdist/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SupportingRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*SupportingDocument, error)
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	CurrentLocation(ctx context.Context, id primitive.ObjectID) (string, error)
	Relocate(ctx context.Context, id primitive.ObjectID, locationCode string) error
	// ListByInvoice returns the supporting documents linked to an invoice.
	ListByInvoice(ctx context.Context, invoiceID primitive.ObjectID) ([]SupportingDocument, error)
}

type SupportingRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSupportingRepository(mongodb *database.MongodbDB) SupportingRepository {
	return &SupportingRepositoryImpl{
		Collection: mongodb.DB.Collection("supporting_documents"),
	}
}

func (r *SupportingRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*SupportingDocument, error) {
	var doc SupportingDocument
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *SupportingRepositoryImpl) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.Collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SupportingRepositoryImpl) CurrentLocation(ctx context.Context, id primitive.ObjectID) (string, error) {
	doc, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", mongo.ErrNoDocuments
	}
	return doc.CurrentLocationCode, nil
}

func (r *SupportingRepositoryImpl) Relocate(ctx context.Context, id primitive.ObjectID, locationCode string) error {
	update := bson.M{"$set": bson.M{
		"current_location_code": locationCode,
		"updated_at":            time.Now(),
	}}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *SupportingRepositoryImpl) ListByInvoice(ctx context.Context, invoiceID primitive.ObjectID) ([]SupportingDocument, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"invoice_id": invoiceID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []SupportingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
