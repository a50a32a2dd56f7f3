package dto

import (
	"github.com/pegasus-hq/support-core/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title        string                `json:"title" validate:"required"`
	Description  string                `json:"description" validate:"required"`
	Priority     domain.TicketPriority `json:"priority"`
	Category     domain.TicketCategory `json:"category"`
	Type         domain.TicketType     `json:"type"`
	CustomFields map[string]any        `json:"customFields"`
}

// UpdateTicketRequest carries a partial update; absent fields stay untouched.
type UpdateTicketRequest struct {
	Title          *string                `json:"title"`
	Description    *string                `json:"description"`
	Status         *domain.TicketStatus   `json:"status"`
	Priority       *domain.TicketPriority `json:"priority"`
	Category       *domain.TicketCategory `json:"category"`
	Type           *domain.TicketType     `json:"type"`
	AssignedTo     *string                `json:"assignedTo"`
	AssignedToName *string                `json:"assignedToName"`
	TimeSpent      *int                   `json:"timespent"`
	CustomFields   map[string]any         `json:"customFields"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Content     string                     `json:"content" validate:"required"`
	IsInternal  bool                       `json:"isInternal"`
	Attachments []domain.MessageAttachment `json:"attachments"`
	Metadata    map[string]any             `json:"metadata"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssignedTo     string `json:"assignedTo" validate:"required"`
	AssignedToName string `json:"assignedToName"`
}

// EscalateTicketRequest payload.
type EscalateTicketRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// SatisfactionRequest payload.
type SatisfactionRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// CreateTemplateRequest payload.
type CreateTemplateRequest struct {
	Name     string                `json:"name" validate:"required"`
	Title    string                `json:"title"`
	Content  string                `json:"content" validate:"required"`
	Category domain.TicketCategory `json:"category"`
	Priority domain.TicketPriority `json:"priority"`
	Tags     []string              `json:"tags"`
}

// CreateAutomationRequest payload.
type CreateAutomationRequest struct {
	Name        string                    `json:"name" validate:"required"`
	Description string                    `json:"description"`
	Trigger     domain.AutomationTrigger  `json:"trigger" validate:"required"`
	Actions     []domain.AutomationAction `json:"actions"`
	Enabled     bool                      `json:"enabled"`
}
