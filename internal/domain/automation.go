package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AutomationTrigger describes when an automation should fire. Conditions are
// stored verbatim; the rule-evaluation engine is not part of this service.
type AutomationTrigger struct {
	Event      string         `json:"event" bson:"event"`
	Conditions map[string]any `json:"conditions,omitempty" bson:"conditions,omitempty"`
}

// AutomationAction describes an action an automation would perform.
type AutomationAction struct {
	Type   string         `json:"type" bson:"type"`
	Params map[string]any `json:"params,omitempty" bson:"params,omitempty"`
}

// TicketAutomation is an admin-authored automation rule. Triggering only
// records lastTriggered and increments triggerCount; conditions and actions
// are not evaluated here.
type TicketAutomation struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	Trigger       AutomationTrigger  `json:"trigger" bson:"trigger"`
	Actions       []AutomationAction `json:"actions,omitempty" bson:"actions,omitempty"`
	Enabled       bool               `json:"enabled" bson:"enabled"`
	TriggerCount  int                `json:"triggerCount" bson:"triggerCount"`
	LastTriggered *time.Time         `json:"lastTriggered,omitempty" bson:"lastTriggered,omitempty"`
	CreatedBy     string             `json:"createdBy" bson:"createdBy"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}
