package user

import (
	"context"

	common_models "go-docdist/internal/common/models"
	"go-docdist/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository is a read-side lookup over the user store owned by the auth
// subsystem. The engine only needs actor names and department recipients.
type UserRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error)
	FindByDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]common_models.User, error)
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var users []common_models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) FindByDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]common_models.User, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"department_id": departmentID, "status": "active"})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var users []common_models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
