package history

import (
	"context"

	"go-docdist/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HistoryRepository interface {
	Create(ctx context.Context, entry Entry) error
	ListByDistribution(ctx context.Context, distributionID primitive.ObjectID) ([]Entry, error)
	EnsureIndexes(ctx context.Context) error
}

type HistoryRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewHistoryRepository(mongodb *database.MongodbDB) HistoryRepository {
	return &HistoryRepositoryImpl{
		Collection: mongodb.DB.Collection("distribution_history"),
	}
}

func (r *HistoryRepositoryImpl) Create(ctx context.Context, entry Entry) error {
	_, err := r.Collection.InsertOne(ctx, entry)
	return err
}

func (r *HistoryRepositoryImpl) ListByDistribution(ctx context.Context, distributionID primitive.ObjectID) ([]Entry, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := r.Collection.Find(ctx, bson.M{"distribution_id": distributionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var entries []Entry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *HistoryRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "distribution_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}
