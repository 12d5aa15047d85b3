package rules

import (
	"context"
	"errors"
	"time"

	"plm-connector/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrRuleNotFound     = errors.New("rule not found")
	ErrDuplicateRuleKey = errors.New("rule key already exists")
)

type RuleRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, rule *SyncRule) error
	List(ctx context.Context) ([]SyncRule, error)
	ListEnabled(ctx context.Context) ([]SyncRule, error)
	GetByID(ctx context.Context, id string) (*SyncRule, error)
	GetByKey(ctx context.Context, key string) (*SyncRule, error)
	Update(ctx context.Context, id string, fields bson.M) (*SyncRule, error)
	Count(ctx context.Context) (int64, error)
}

type RuleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRuleRepository(mongodb *database.MongodbDB) RuleRepository {
	return &RuleRepositoryImpl{
		Collection: mongodb.DB.Collection("sync_rules"),
	}
}

func (r *RuleRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "rule_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_rule_key"),
	})
	return err
}

func (r *RuleRepositoryImpl) Create(ctx context.Context, rule *SyncRule) error {
	if rule.ID.IsZero() {
		rule.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, rule)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateRuleKey
	}
	return err
}

func (r *RuleRepositoryImpl) List(ctx context.Context) ([]SyncRule, error) {
	return r.find(ctx, bson.M{})
}

func (r *RuleRepositoryImpl) ListEnabled(ctx context.Context) ([]SyncRule, error) {
	return r.find(ctx, bson.M{"is_enabled": true})
}

func (r *RuleRepositoryImpl) find(ctx context.Context, filter bson.M) ([]SyncRule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	rules := []SyncRule{}
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *RuleRepositoryImpl) GetByID(ctx context.Context, id string) (*SyncRule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRuleNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *RuleRepositoryImpl) GetByKey(ctx context.Context, key string) (*SyncRule, error) {
	return r.findOne(ctx, bson.M{"rule_key": key})
}

func (r *RuleRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*SyncRule, error) {
	var rule SyncRule
	if err := r.Collection.FindOne(ctx, filter).Decode(&rule); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (r *RuleRepositoryImpl) Update(ctx context.Context, id string, fields bson.M) (*SyncRule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRuleNotFound
	}

	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rule SyncRule
	err = r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&rule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (r *RuleRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{})
}
