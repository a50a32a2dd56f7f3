package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pegasus-hq/support-core/internal/domain"
)

// TemplateRepository encapsulates ticket template persistence.
type TemplateRepository interface {
	Insert(ctx context.Context, template *domain.TicketTemplate) error
	List(ctx context.Context) ([]domain.TicketTemplate, error)
	IncrementUsage(ctx context.Context, id string) (bool, error)
}

type templateRepository struct {
	coll *mongo.Collection
}

// NewTemplateRepository instantiates repository.
func NewTemplateRepository(coll *mongo.Collection) TemplateRepository {
	return &templateRepository{coll: coll}
}

func (r *templateRepository) Insert(ctx context.Context, template *domain.TicketTemplate) error {
	res, err := r.coll.InsertOne(ctx, template)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		template.ID = oid
	}
	return nil
}

func (r *templateRepository) List(ctx context.Context) ([]domain.TicketTemplate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	templates := []domain.TicketTemplate{}
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) IncrementUsage(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, err
	}
	update := bson.M{
		"$inc": bson.M{"usage": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
