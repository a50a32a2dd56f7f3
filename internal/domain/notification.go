package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType enumerates the events a notification can describe.
type NotificationType string

const (
	NotificationNewTicket    NotificationType = "new-ticket"
	NotificationStatusChange NotificationType = "status-change"
	NotificationNewMessage   NotificationType = "new-message"
	NotificationAssignment   NotificationType = "assignment"
	NotificationEscalation   NotificationType = "escalation"
	NotificationSLABreach    NotificationType = "sla-breach"
)

// TicketNotification is an in-app notification addressed to a single user.
type TicketNotification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TicketID  string             `json:"ticketId" bson:"ticketId"`
	UserID    string             `json:"userId" bson:"userId"`
	Type      NotificationType   `json:"type" bson:"type"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
