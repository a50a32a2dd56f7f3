package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketStatus enumerates lifecycle states for tickets. Transitions are
// caller-driven: any status may move to any other status.
type TicketStatus string

const (
	TicketStatusOpen        TicketStatus = "open"
	TicketStatusInProgress  TicketStatus = "in-progress"
	TicketStatusPendingUser TicketStatus = "pending-user"
	TicketStatusResolved    TicketStatus = "resolved"
	TicketStatusClosed      TicketStatus = "closed"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityNormal   TicketPriority = "normal"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityUrgent   TicketPriority = "urgent"
	TicketPriorityCritical TicketPriority = "critical"
)

// TicketCategory enumerates ticket subject areas.
type TicketCategory string

const (
	TicketCategoryBug            TicketCategory = "bug"
	TicketCategoryFeatureRequest TicketCategory = "feature-request"
	TicketCategorySupport        TicketCategory = "support"
	TicketCategoryBilling        TicketCategory = "billing"
	TicketCategoryAccount        TicketCategory = "account"
	TicketCategoryTechnical      TicketCategory = "technical"
	TicketCategoryOther          TicketCategory = "other"
)

// TicketType differentiates visibility classes of tickets.
type TicketType string

const (
	TicketTypePublic    TicketType = "public"
	TicketTypeInternal  TicketType = "internal"
	TicketTypeEscalated TicketType = "escalated"
)

// SLAInfo tracks response/resolution targets and outcomes for one ticket.
// Times are minutes from ticket creation. Breached is monotonic false->true.
type SLAInfo struct {
	FirstResponseTime *int       `json:"firstResponseTime,omitempty" bson:"firstResponseTime,omitempty"`
	ResolutionTime    *int       `json:"resolutionTime,omitempty" bson:"resolutionTime,omitempty"`
	FirstResponseDue  *time.Time `json:"firstResponseDue,omitempty" bson:"firstResponseDue,omitempty"`
	ResolutionDue     *time.Time `json:"resolutionDue,omitempty" bson:"resolutionDue,omitempty"`
	Breached          bool       `json:"breached" bson:"breached"`
}

// Ticket is the aggregate for support requests. Messages are embedded;
// messageCount must equal len(messages) at all times.
type Ticket struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TicketNumber string             `json:"ticketNumber" bson:"ticketNumber"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	Status       TicketStatus       `json:"status" bson:"status"`
	Priority     TicketPriority     `json:"priority" bson:"priority"`
	Category     TicketCategory     `json:"category" bson:"category"`
	Type         TicketType         `json:"type" bson:"type"`

	// Creator, immutable after creation.
	UserID    string `json:"userId" bson:"userId"`
	UserEmail string `json:"userEmail" bson:"userEmail"`
	UserName  string `json:"userName" bson:"userName"`

	AssignedTo     string `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	AssignedToName string `json:"assignedToName,omitempty" bson:"assignedToName,omitempty"`

	Messages      []TicketMessage `json:"messages" bson:"messages"`
	MessageCount  int             `json:"messageCount" bson:"messageCount"`
	LastMessageAt *time.Time      `json:"lastMessageAt,omitempty" bson:"lastMessageAt,omitempty"`
	LastMessageBy string          `json:"lastMessageBy,omitempty" bson:"lastMessageBy,omitempty"`

	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt" bson:"updatedAt"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
	ClosedAt        *time.Time `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
	FirstResponseAt *time.Time `json:"firstResponseAt,omitempty" bson:"firstResponseAt,omitempty"`
	SLA             SLAInfo    `json:"sla" bson:"sla"`

	IsEscalated      bool       `json:"isEscalated" bson:"isEscalated"`
	EscalatedAt      *time.Time `json:"escalatedAt,omitempty" bson:"escalatedAt,omitempty"`
	EscalatedBy      string     `json:"escalatedBy,omitempty" bson:"escalatedBy,omitempty"`
	EscalationReason string     `json:"escalationReason,omitempty" bson:"escalationReason,omitempty"`

	ViewCount    int        `json:"viewCount" bson:"viewCount"`
	LastViewedAt *time.Time `json:"lastViewedAt,omitempty" bson:"lastViewedAt,omitempty"`
	TimeSpent    int        `json:"timespent" bson:"timespent"`

	SatisfactionRating   *int       `json:"satisfactionRating,omitempty" bson:"satisfactionRating,omitempty"`
	SatisfactionFeedback string     `json:"satisfactionFeedback,omitempty" bson:"satisfactionFeedback,omitempty"`
	RatedAt              *time.Time `json:"ratedAt,omitempty" bson:"ratedAt,omitempty"`

	CustomFields map[string]any `json:"customFields,omitempty" bson:"customFields,omitempty"`
}

// NewTicketNumber builds a human-readable ticket reference: "TKT-" followed by
// the last six digits of the unix-millisecond clock and four random hex
// characters. Collisions are possible but acceptable at this scale; the
// ticketNumber index is non-unique.
func NewTicketNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("TKT-%06d%s", now.UnixMilli()%1000000, suffix)
}
