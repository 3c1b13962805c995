package department

import (
	"context"

	"go-docdist/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DepartmentRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*Department, error)
	List(ctx context.Context) ([]Department, error)
}

type DepartmentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDepartmentRepository(mongodb *database.MongodbDB) DepartmentRepository {
	return &DepartmentRepositoryImpl{
		Collection: mongodb.DB.Collection("departments"),
	}
}

func (r *DepartmentRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*Department, error) {
	var dept Department
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dept)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepositoryImpl) List(ctx context.Context) ([]Department, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var depts []Department
	if err = cursor.All(ctx, &depts); err != nil {
		return nil, err
	}
	return depts, nil
}
