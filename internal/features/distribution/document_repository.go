package distribution

import (
	"context"

	common_models "go-docdist/internal/common/models"
	"go-docdist/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DocumentRepository interface {
	InsertMany(ctx context.Context, docs []DistributionDocument) error
	ListByDistribution(ctx context.Context, distributionID primitive.ObjectID) ([]DistributionDocument, error)
	SetSenderVerification(ctx context.Context, id primitive.ObjectID, status VerificationStatus, notes string) error
	SetReceiverVerification(ctx context.Context, id primitive.ObjectID, status VerificationStatus, notes string) error
	DeleteOne(ctx context.Context, distributionID primitive.ObjectID, ref common_models.DocumentRef) (bool, error)
	DeleteByDistribution(ctx context.Context, distributionID primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type DocumentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDocumentRepository(mongodb *database.MongodbDB) DocumentRepository {
	return &DocumentRepositoryImpl{
		Collection: mongodb.DB.Collection("distribution_documents"),
	}
}

func (r *DocumentRepositoryImpl) InsertMany(ctx context.Context, docs []DistributionDocument) error {
	rows := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, doc)
	}
	_, err := r.Collection.InsertMany(ctx, rows)
	return err
}

func (r *DocumentRepositoryImpl) ListByDistribution(ctx context.Context, distributionID primitive.ObjectID) ([]DistributionDocument, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"distribution_id": distributionID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []DistributionDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepositoryImpl) SetSenderVerification(ctx context.Context, id primitive.ObjectID, status VerificationStatus, notes string) error {
	// Guarded on sender_verified so the fields are written at most once.
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "sender_verified": false},
		bson.M{"$set": bson.M{
			"sender_verified": true,
			"sender_status":   status,
			"sender_notes":    notes,
		}},
	)
	return err
}

func (r *DocumentRepositoryImpl) SetReceiverVerification(ctx context.Context, id primitive.ObjectID, status VerificationStatus, notes string) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "receiver_verified": false},
		bson.M{"$set": bson.M{
			"receiver_verified": true,
			"receiver_status":   status,
			"receiver_notes":    notes,
		}},
	)
	return err
}

func (r *DocumentRepositoryImpl) DeleteOne(ctx context.Context, distributionID primitive.ObjectID, ref common_models.DocumentRef) (bool, error) {
	res, err := r.Collection.DeleteOne(ctx, bson.M{
		"distribution_id": distributionID,
		"document_kind":   ref.Kind,
		"document_id":     ref.DocumentID,
	})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *DocumentRepositoryImpl) DeleteByDistribution(ctx context.Context, distributionID primitive.ObjectID) error {
	_, err := r.Collection.DeleteMany(ctx, bson.M{"distribution_id": distributionID})
	return err
}

func (r *DocumentRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "distribution_id", Value: 1},
			{Key: "document_kind", Value: 1},
			{Key: "document_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
