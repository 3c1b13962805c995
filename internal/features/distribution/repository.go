package distribution

import (
	"context"
	"time"

	"go-docdist/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DistributionRepository interface {
	Insert(ctx context.Context, d *Distribution) error
	// GetByID returns nil for unknown or soft-deleted distributions.
	GetByID(ctx context.Context, id primitive.ObjectID) (*Distribution, error)
	List(ctx context.Context, filter ListFilter) ([]Distribution, int64, error)
	// AdvanceStatus applies set while the stored status still equals from.
	// A false return means a concurrent request advanced the status first.
	AdvanceStatus(ctx context.Context, id primitive.ObjectID, from Status, set bson.M) (bool, error)
	// UpdateDraft applies set while the distribution is still a draft.
	UpdateDraft(ctx context.Context, id primitive.ObjectID, set bson.M) (bool, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error)
	// ListStaleSent finds distributions sitting in "sent" since before the cutoff.
	ListStaleSent(ctx context.Context, before time.Time) ([]Distribution, error)
	EnsureIndexes(ctx context.Context) error
}

type DistributionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDistributionRepository(mongodb *database.MongodbDB) DistributionRepository {
	return &DistributionRepositoryImpl{
		Collection: mongodb.DB.Collection("distributions"),
	}
}

// notDeleted excludes soft-deleted rows from every read and write.
func notDeleted(filter bson.M) bson.M {
	filter["deleted_at"] = bson.M{"$exists": false}
	return filter
}

func (r *DistributionRepositoryImpl) Insert(ctx context.Context, d *Distribution) error {
	_, err := r.Collection.InsertOne(ctx, d)
	return err
}

func (r *DistributionRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*Distribution, error) {
	var d Distribution
	err := r.Collection.FindOne(ctx, notDeleted(bson.M{"_id": id})).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DistributionRepositoryImpl) List(ctx context.Context, filter ListFilter) ([]Distribution, int64, error) {
	query := notDeleted(bson.M{})
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if !filter.OriginID.IsZero() {
		query["origin_department_id"] = filter.OriginID
	}
	if !filter.DestinationID.IsZero() {
		query["destination_department_id"] = filter.DestinationID
	}
	if !filter.TypeID.IsZero() {
		query["type_id"] = filter.TypeID
	}
	if filter.CreatedBy != "" {
		query["created_by"] = filter.CreatedBy
	}
	createdRange := bson.M{}
	if !filter.CreatedFrom.IsZero() {
		createdRange["$gte"] = filter.CreatedFrom
	}
	if !filter.CreatedTo.IsZero() {
		createdRange["$lte"] = filter.CreatedTo
	}
	if len(createdRange) > 0 {
		query["created_at"] = createdRange
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)
	var dists []Distribution
	if err = cursor.All(ctx, &dists); err != nil {
		return nil, 0, err
	}
	return dists, total, nil
}

func (r *DistributionRepositoryImpl) AdvanceStatus(ctx context.Context, id primitive.ObjectID, from Status, set bson.M) (bool, error) {
	set["updated_at"] = time.Now()
	res, err := r.Collection.UpdateOne(ctx,
		notDeleted(bson.M{"_id": id, "status": from}),
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *DistributionRepositoryImpl) UpdateDraft(ctx context.Context, id primitive.ObjectID, set bson.M) (bool, error) {
	set["updated_at"] = time.Now()
	res, err := r.Collection.UpdateOne(ctx,
		notDeleted(bson.M{"_id": id, "status": StatusDraft}),
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *DistributionRepositoryImpl) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.Collection.UpdateOne(ctx,
		notDeleted(bson.M{"_id": id, "status": StatusDraft}),
		bson.M{"$set": bson.M{"deleted_at": time.Now(), "updated_at": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *DistributionRepositoryImpl) ListStaleSent(ctx context.Context, before time.Time) ([]Distribution, error) {
	query := notDeleted(bson.M{
		"status":  StatusSent,
		"sent_at": bson.M{"$lte": before},
	})
	cursor, err := r.Collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var dists []Distribution
	if err = cursor.All(ctx, &dists); err != nil {
		return nil, err
	}
	return dists, nil
}

func (r *DistributionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	return err
}
