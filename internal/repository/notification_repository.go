package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pegasus-hq/support-core/internal/domain"
)

// NotificationRepository encapsulates notification persistence.
type NotificationRepository interface {
	Insert(ctx context.Context, notification *domain.TicketNotification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]domain.TicketNotification, error)
	MarkRead(ctx context.Context, id string) (bool, error)
}

type notificationRepository struct {
	coll *mongo.Collection
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(coll *mongo.Collection) NotificationRepository {
	return &notificationRepository{coll: coll}
}

func (r *notificationRepository) Insert(ctx context.Context, notification *domain.TicketNotification) error {
	res, err := r.coll.InsertOne(ctx, notification)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		notification.ID = oid
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]domain.TicketNotification, error) {
	query := bson.M{"userId": userID}
	if unreadOnly {
		query["read"] = false
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []domain.TicketNotification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
