package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketTemplate is an admin-authored reply/creation preset. Usage is a
// monotonic counter incremented each time the template is applied.
type TicketTemplate struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	Category  TicketCategory     `json:"category,omitempty" bson:"category,omitempty"`
	Priority  TicketPriority     `json:"priority,omitempty" bson:"priority,omitempty"`
	Tags      []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedBy string             `json:"createdBy" bson:"createdBy"`
	Usage     int                `json:"usage" bson:"usage"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
