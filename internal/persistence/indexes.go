package persistence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type indexSpec struct {
	collection *mongo.Collection
	keys       bson.D
}

// EnsureIndexes creates the secondary indexes the query patterns rely on.
// ticketNumber is deliberately non-unique: the generator tolerates the
// residual collision probability at this scale.
func EnsureIndexes(ctx context.Context, m *Mongo, logger *zap.Logger) error {
	specs := []indexSpec{
		{m.DB.Collection(CollectionTickets), bson.D{{Key: "ticketNumber", Value: 1}}},
		{m.DB.Collection(CollectionTickets), bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{m.DB.Collection(CollectionTickets), bson.D{{Key: "assignedTo", Value: 1}, {Key: "status", Value: 1}}},
		{m.DB.Collection(CollectionTickets), bson.D{{Key: "createdAt", Value: -1}}},
		{m.DB.Collection(CollectionNotifications), bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{m.AuthDB.Collection(CollectionUsers), bson.D{{Key: "id", Value: 1}}},
		{m.AuthDB.Collection(CollectionUsers), bson.D{{Key: "email", Value: 1}}},
		{m.AuthDB.Collection(CollectionTokenUsage), bson.D{{Key: "userId", Value: 1}}},
	}

	for _, spec := range specs {
		if _, err := spec.collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.keys}); err != nil {
			return fmt.Errorf("ensure index on %s: %w", spec.collection.Name(), err)
		}
	}

	logger.Info("indexes ensured", zap.Int("count", len(specs)))
	return nil
}
