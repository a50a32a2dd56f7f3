package domain

import "time"

// MessageAuthorRole indicates who authored a message.
type MessageAuthorRole string

const (
	AuthorRoleUser   MessageAuthorRole = "user"
	AuthorRoleAdmin  MessageAuthorRole = "admin"
	AuthorRoleAgent  MessageAuthorRole = "agent"
	AuthorRoleSystem MessageAuthorRole = "system"
)

// IsStaff reports whether the role belongs to the support side of a ticket.
func (r MessageAuthorRole) IsStaff() bool {
	return r == AuthorRoleAdmin || r == AuthorRoleAgent
}

// TicketMessage captures one entry in a ticket thread. Messages are embedded
// in the ticket document and never stored independently.
type TicketMessage struct {
	ID          string              `json:"id" bson:"id"`
	TicketID    string              `json:"ticketId" bson:"ticketId"`
	AuthorID    string              `json:"authorId" bson:"authorId"`
	AuthorName  string              `json:"authorName" bson:"authorName"`
	AuthorEmail string              `json:"authorEmail" bson:"authorEmail"`
	AuthorRole  MessageAuthorRole   `json:"authorRole" bson:"authorRole"`
	Content     string              `json:"content" bson:"content"`
	IsInternal  bool                `json:"isInternal" bson:"isInternal"`
	Attachments []MessageAttachment `json:"attachments,omitempty" bson:"attachments,omitempty"`
	Metadata    map[string]any      `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
}

// MessageAttachment stores metadata for a file attached to a message.
type MessageAttachment struct {
	ID        string `json:"id" bson:"id"`
	FileName  string `json:"fileName" bson:"fileName"`
	MimeType  string `json:"mimeType" bson:"mimeType"`
	SizeBytes int64  `json:"sizeBytes" bson:"sizeBytes"`
	URL       string `json:"url,omitempty" bson:"url,omitempty"`
}
