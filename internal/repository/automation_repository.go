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

// AutomationRepository encapsulates automation rule persistence.
type AutomationRepository interface {
	Insert(ctx context.Context, automation *domain.TicketAutomation) error
	List(ctx context.Context) ([]domain.TicketAutomation, error)
	RecordTrigger(ctx context.Context, id string, triggeredAt time.Time) (bool, error)
}

type automationRepository struct {
	coll *mongo.Collection
}

// NewAutomationRepository instantiates repository.
func NewAutomationRepository(coll *mongo.Collection) AutomationRepository {
	return &automationRepository{coll: coll}
}

func (r *automationRepository) Insert(ctx context.Context, automation *domain.TicketAutomation) error {
	res, err := r.coll.InsertOne(ctx, automation)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		automation.ID = oid
	}
	return nil
}

func (r *automationRepository) List(ctx context.Context) ([]domain.TicketAutomation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	automations := []domain.TicketAutomation{}
	if err := cursor.All(ctx, &automations); err != nil {
		return nil, err
	}
	return automations, nil
}

// RecordTrigger stamps lastTriggered and bumps triggerCount. Conditions and
// actions are deliberately not evaluated.
func (r *automationRepository) RecordTrigger(ctx context.Context, id string, triggeredAt time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, err
	}
	update := bson.M{
		"$inc": bson.M{"triggerCount": 1},
		"$set": bson.M{"lastTriggered": triggeredAt, "updatedAt": triggeredAt},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
