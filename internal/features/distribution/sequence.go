package distribution

import (
	"context"
	"fmt"
	"time"

	"go-docdist/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterRepository allocates strictly increasing sequence values scoped by
// (year, department code, type code). Allocations are never reused, even when
// the owning distribution is later soft-deleted.
type CounterRepository interface {
	Next(ctx context.Context, year int, departmentCode, typeCode string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type CounterRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewCounterRepository(mongodb *database.MongodbDB) CounterRepository {
	return &CounterRepositoryImpl{
		Collection: mongodb.DB.Collection("distribution_counters"),
	}
}

// Next increments and reads the scope counter in one atomic server-side
// operation. Two concurrent upserts for a scope that does not exist yet can
// both attempt the insert; the loser of that race hits the unique index and
// is retried, invisible to the caller.
func (r *CounterRepositoryImpl) Next(ctx context.Context, year int, departmentCode, typeCode string) (int64, error) {
	filter := bson.M{
		"year":            year,
		"department_code": departmentCode,
		"type_code":       typeCode,
	}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result struct {
		Seq int64 `bson:"seq"`
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		err := r.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result)
		if err == nil {
			return result.Seq, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return 0, err
		}
		lastErr = err
	}
	return 0, lastErr
}

func (r *CounterRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "year", Value: 1},
			{Key: "department_code", Value: 1},
			{Key: "type_code", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// NumberGenerator formats collision-free distribution numbers:
// YY/DEPARTMENT_CODE/TYPE_CODE/SEQUENCE.
type NumberGenerator struct {
	Counters CounterRepository
}

func NewNumberGenerator(counters CounterRepository) *NumberGenerator {
	return &NumberGenerator{Counters: counters}
}

func (g *NumberGenerator) Generate(ctx context.Context, at time.Time, departmentCode, typeCode string) (string, error) {
	seq, err := g.Counters.Next(ctx, at.Year(), departmentCode, typeCode)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d/%s/%s/%04d", at.Year()%100, departmentCode, typeCode, seq), nil
}
