package disttype

import (
	"context"

	"go-docdist/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TypeRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*DistributionType, error)
	List(ctx context.Context) ([]DistributionType, error)
}

type TypeRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewTypeRepository(mongodb *database.MongodbDB) TypeRepository {
	return &TypeRepositoryImpl{
		Collection: mongodb.DB.Collection("distribution_types"),
	}
}

func (r *TypeRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*DistributionType, error) {
	var dt DistributionType
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &dt, nil
}

func (r *TypeRepositoryImpl) List(ctx context.Context) ([]DistributionType, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var types []DistributionType
	if err = cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}
