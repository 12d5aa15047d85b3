package sync

import (
	"context"
	"errors"

	"plm-connector/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	resultCollection = "sync_results"
	// Upper bound on the stored size of one result, used to size the capped collection.
	maxResultBytes = 256 * 1024
	// MongoDB server error code for an existing namespace.
	codeNamespaceExists = 48
)

// ResultRepository is the append-only Result Log. Entries are never updated;
// the capped collection evicts the oldest ones once full.
type ResultRepository interface {
	EnsureCollection(ctx context.Context, maxDocs int64) error
	Append(ctx context.Context, result *SyncResult) error
	List(ctx context.Context, limit int64) ([]SyncResult, error)
	Latest(ctx context.Context) (*SyncResult, error)
}

type ResultRepositoryImpl struct {
	DB         *mongo.Database
	Collection *mongo.Collection
}

func NewResultRepository(mongodb *database.MongodbDB) ResultRepository {
	return &ResultRepositoryImpl{
		DB:         mongodb.DB,
		Collection: mongodb.DB.Collection(resultCollection),
	}
}

func (r *ResultRepositoryImpl) EnsureCollection(ctx context.Context, maxDocs int64) error {
	if maxDocs <= 0 {
		maxDocs = 200
	}
	opts := options.CreateCollection().
		SetCapped(true).
		SetMaxDocuments(maxDocs).
		SetSizeInBytes(maxDocs * maxResultBytes)

	err := r.DB.CreateCollection(ctx, resultCollection, opts)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceExists {
		return nil
	}
	return err
}

func (r *ResultRepositoryImpl) Append(ctx context.Context, result *SyncResult) error {
	_, err := r.Collection.InsertOne(ctx, result)
	return err
}

// List returns the most recent results, newest first.
func (r *ResultRepositoryImpl) List(ctx context.Context, limit int64) ([]SyncResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: -1}}).SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	results := []SyncResult{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Latest returns nil, nil when no pass has run yet.
func (r *ResultRepositoryImpl) Latest(ctx context.Context) (*SyncResult, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "$natural", Value: -1}})
	var result SyncResult
	if err := r.Collection.FindOne(ctx, bson.M{}, opts).Decode(&result); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
