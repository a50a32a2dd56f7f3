package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pegasus-hq/support-core/internal/domain"
)

// TokenUsageRepository encapsulates the usage-tracking collection. Unlike the
// identity collection it is always keyed by the string form of the user id,
// so there is no dual-identifier ambiguity here.
type TokenUsageRepository interface {
	Get(ctx context.Context, userID string) (*domain.TokenUsage, error)
	SetTotal(ctx context.Context, userID string, total int) error
	IncrementTotal(ctx context.Context, userID string, delta int) error
}

type tokenUsageRepository struct {
	coll *mongo.Collection
}

// NewTokenUsageRepository instantiates repository.
func NewTokenUsageRepository(coll *mongo.Collection) TokenUsageRepository {
	return &tokenUsageRepository{coll: coll}
}

func (r *tokenUsageRepository) Get(ctx context.Context, userID string) (*domain.TokenUsage, error) {
	var usage domain.TokenUsage
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&usage)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

func (r *tokenUsageRepository) SetTotal(ctx context.Context, userID string, total int) error {
	update := bson.M{"$set": bson.M{"totalTokens": total, "updatedAt": time.Now()}}
	opts := options.Update().SetUpsert(true)
	_, err := r.coll.UpdateOne(ctx, bson.M{"userId": userID}, update, opts)
	return err
}

func (r *tokenUsageRepository) IncrementTotal(ctx context.Context, userID string, delta int) error {
	update := bson.M{
		"$inc": bson.M{"totalTokens": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.coll.UpdateOne(ctx, bson.M{"userId": userID}, update, opts)
	return err
}
