package document

import (
	"context"
	"time"

	"go-docdist/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type InvoiceRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*Invoice, error)
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	CurrentLocation(ctx context.Context, id primitive.ObjectID) (string, error)
	Relocate(ctx context.Context, id primitive.ObjectID, locationCode string) error
}

type InvoiceRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewInvoiceRepository(mongodb *database.MongodbDB) InvoiceRepository {
	return &InvoiceRepositoryImpl{
		Collection: mongodb.DB.Collection("invoices"),
	}
}

func (r *InvoiceRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*Invoice, error) {
	var inv Invoice
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepositoryImpl) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.Collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *InvoiceRepositoryImpl) CurrentLocation(ctx context.Context, id primitive.ObjectID) (string, error) {
	inv, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if inv == nil {
		return "", mongo.ErrNoDocuments
	}
	return inv.CurrentLocationCode, nil
}

func (r *InvoiceRepositoryImpl) Relocate(ctx context.Context, id primitive.ObjectID, locationCode string) error {
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
