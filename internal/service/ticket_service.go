package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pegasus-hq/support-core/internal/domain"
	"github.com/pegasus-hq/support-core/internal/events"
	"github.com/pegasus-hq/support-core/internal/repository"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

// TicketService owns all read/write access to the ticket-domain collections
// and enforces the invariants that span multiple fields (message count,
// first-response stamping, SLA bookkeeping, escalation).
type TicketService struct {
	tickets       repository.TicketRepository
	notifications repository.NotificationRepository
	templates     repository.TemplateRepository
	automations   repository.AutomationRepository
	dispatcher    events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo       repository.TicketRepository
	NotificationRepo repository.NotificationRepository
	TemplateRepo     repository.TemplateRepository
	AutomationRepo   repository.AutomationRepository
	Dispatcher       events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:       deps.TicketRepo,
		notifications: deps.NotificationRepo,
		templates:     deps.TemplateRepo,
		automations:   deps.AutomationRepo,
		dispatcher:    deps.Dispatcher,
	}
}

// CreateTicketInput describes ticket creation payload. Priority and category
// are stored as supplied; enum checking belongs to the transport layer.
type CreateTicketInput struct {
	Title        string
	Description  string
	Priority     domain.TicketPriority
	Category     domain.TicketCategory
	Type         domain.TicketType
	CustomFields map[string]any
}

// UpdateTicketInput carries a shallow merge of mutable ticket fields.
type UpdateTicketInput struct {
	Title          *string
	Description    *string
	Status         *domain.TicketStatus
	Priority       *domain.TicketPriority
	Category       *domain.TicketCategory
	Type           *domain.TicketType
	AssignedTo     *string
	AssignedToName *string
	TimeSpent      *int
	CustomFields   map[string]any
}

// AddMessageInput describes a thread append.
type AddMessageInput struct {
	Content     string
	IsInternal  bool
	Attachments []domain.MessageAttachment
	Metadata    map[string]any
}

// TicketSearchResult is a page of tickets plus paging math.
type TicketSearchResult struct {
	Tickets    []domain.Ticket `json:"tickets"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// slaTarget holds response/resolution targets for one priority.
type slaTarget struct {
	firstResponse time.Duration
	resolution    time.Duration
}

var slaTargets = map[domain.TicketPriority]slaTarget{
	domain.TicketPriorityCritical: {30 * time.Minute, 4 * time.Hour},
	domain.TicketPriorityUrgent:   {time.Hour, 8 * time.Hour},
	domain.TicketPriorityHigh:     {2 * time.Hour, 24 * time.Hour},
	domain.TicketPriorityNormal:   {8 * time.Hour, 72 * time.Hour},
	domain.TicketPriorityLow:      {24 * time.Hour, 7 * 24 * time.Hour},
}

// CreateTicket creates a ticket for a user and stamps SLA due dates when the
// priority maps to a known target.
func (s *TicketService) CreateTicket(ctx context.Context, input CreateTicketInput, userID, userEmail, userName string) (*domain.Ticket, error) {
	now := time.Now()

	ticket := &domain.Ticket{
		TicketNumber: domain.NewTicketNumber(now),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusOpen,
		Priority:     input.Priority,
		Category:     input.Category,
		Type:         input.Type,
		UserID:       userID,
		UserEmail:    userEmail,
		UserName:     userName,
		Messages:     []domain.TicketMessage{},
		MessageCount: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
		SLA:          domain.SLAInfo{Breached: false},
		CustomFields: input.CustomFields,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityNormal
	}
	if ticket.Type == "" {
		ticket.Type = domain.TicketTypePublic
	}
	if target, ok := slaTargets[ticket.Priority]; ok {
		frDue := now.Add(target.firstResponse)
		resDue := now.Add(target.resolution)
		ticket.SLA.FirstResponseDue = &frDue
		ticket.SLA.ResolutionDue = &resDue
	}

	if err := s.tickets.Insert(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID.Hex(),
		ActorID:  userID,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			Priority:     ticket.Priority,
			Category:     ticket.Category,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket by native id or ticketNumber. Returns nil when
// no document matches.
func (s *TicketService) GetTicket(ctx context.Context, ref string) (*domain.Ticket, error) {
	return s.tickets.Get(ctx, ref)
}

// UpdateTicket shallow-merges the supplied fields. Transitions into resolved
// and closed (re)stamp resolvedAt/closedAt: the timestamps reflect the most
// recent transition, not the first. Returns nil when no document matched.
func (s *TicketService) UpdateTicket(ctx context.Context, ref string, input UpdateTicketInput) (*domain.Ticket, error) {
	current, err := s.tickets.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	now := time.Now()
	set := map[string]any{"updatedAt": now}

	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Priority != nil {
		set["priority"] = *input.Priority
	}
	if input.Category != nil {
		set["category"] = *input.Category
	}
	if input.Type != nil {
		set["type"] = *input.Type
	}
	if input.AssignedTo != nil {
		set["assignedTo"] = *input.AssignedTo
	}
	if input.AssignedToName != nil {
		set["assignedToName"] = *input.AssignedToName
	}
	if input.TimeSpent != nil {
		set["timespent"] = *input.TimeSpent
	}
	if input.CustomFields != nil {
		set["customFields"] = input.CustomFields
	}

	if input.Status != nil {
		set["status"] = *input.Status
		switch *input.Status {
		case domain.TicketStatusResolved:
			set["resolvedAt"] = now
			set["sla.resolutionTime"] = minutesSince(current.CreatedAt, now)
			if !current.SLA.Breached && current.SLA.ResolutionDue != nil && now.After(*current.SLA.ResolutionDue) {
				set["sla.breached"] = true
				s.publishSLABreach(ctx, current, "resolution")
			}
		case domain.TicketStatusClosed:
			set["closedAt"] = now
		}
	}

	updated, err := s.tickets.UpdateFields(ctx, ref, set)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	if input.Status != nil && *input.Status != current.Status {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: updated.ID.Hex(),
			Payload: events.TicketStatusChangedPayload{
				OldStatus: current.Status,
				NewStatus: *input.Status,
			},
		})
	}
	return updated, nil
}

// DeleteTicket hard-deletes a ticket. Orphaned notifications are accepted.
func (s *TicketService) DeleteTicket(ctx context.Context, ref string) (bool, error) {
	return s.tickets.Delete(ctx, ref)
}

// AddMessage appends a message in a single combined update: push, count
// increment, last-message fields, and a one-shot firstResponseAt stamp for
// the first admin-authored message. Non-internal messages notify the other
// party; the author is never notified, and an admin reply to an unassigned
// ticket produces no notification.
func (s *TicketService) AddMessage(ctx context.Context, ref string, input AddMessageInput, authorID, authorName, authorEmail string, authorRole domain.MessageAuthorRole) (*domain.TicketMessage, error) {
	ticket, err := s.tickets.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket": ref})
	}

	// Decide first-response before the append so the stamp is one-shot.
	isFirstAdminResponse := authorRole == domain.AuthorRoleAdmin && ticket.FirstResponseAt == nil

	now := time.Now()
	msg := domain.TicketMessage{
		ID:          uuid.NewString(),
		TicketID:    ticket.ID.Hex(),
		AuthorID:    authorID,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
		AuthorRole:  authorRole,
		Content:     input.Content,
		IsInternal:  input.IsInternal,
		Attachments: input.Attachments,
		Metadata:    input.Metadata,
		CreatedAt:   now,
	}

	set := map[string]any{
		"lastMessageAt": now,
		"lastMessageBy": authorName,
		"updatedAt":     now,
	}
	if isFirstAdminResponse {
		set["firstResponseAt"] = now
		set["sla.firstResponseTime"] = minutesSince(ticket.CreatedAt, now)
		if !ticket.SLA.Breached && ticket.SLA.FirstResponseDue != nil && now.After(*ticket.SLA.FirstResponseDue) {
			set["sla.breached"] = true
			s.publishSLABreach(ctx, ticket, "first-response")
		}
	}

	modified, err := s.tickets.AppendMessage(ctx, ref, msg, set)
	if err != nil {
		return nil, err
	}
	if !modified {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket": ref})
	}

	if !msg.IsInternal {
		recipient := ticket.UserID
		if authorID == ticket.UserID {
			recipient = ticket.AssignedTo
		}
		if recipient != "" && recipient != authorID {
			notification := &domain.TicketNotification{
				TicketID:  ticket.ID.Hex(),
				UserID:    recipient,
				Type:      domain.NotificationNewMessage,
				Title:     "New message on " + ticket.TicketNumber,
				Message:   stringPreview(msg.Content, 120),
				Read:      false,
				CreatedAt: now,
			}
			if err := s.notifications.Insert(ctx, notification); err != nil {
				return nil, err
			}
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketMessageAdded,
		TicketID: ticket.ID.Hex(),
		ActorID:  authorID,
		Payload: events.TicketMessageAddedPayload{
			MessageID:  msg.ID,
			AuthorRole: authorRole,
			IsInternal: msg.IsInternal,
			Preview:    stringPreview(msg.Content, 120),
		},
	})
	return &msg, nil
}

// GetMessages returns the embedded thread, hiding internal notes unless the
// caller is entitled to them. Entitlement is the caller's responsibility.
func (s *TicketService) GetMessages(ctx context.Context, ref string, includeInternal bool) ([]domain.TicketMessage, error) {
	ticket, err := s.tickets.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return []domain.TicketMessage{}, nil
	}
	if includeInternal {
		return ticket.Messages, nil
	}
	visible := make([]domain.TicketMessage, 0, len(ticket.Messages))
	for _, msg := range ticket.Messages {
		if msg.IsInternal {
			continue
		}
		visible = append(visible, msg)
	}
	return visible, nil
}

// SearchTickets runs a conjunctive filtered search sorted newest-first.
func (s *TicketService) SearchTickets(ctx context.Context, filter repository.TicketFilter, page, pageSize int) (*TicketSearchResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	tickets, total, err := s.tickets.Search(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &TicketSearchResult{
		Tickets:    tickets,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// AssignTicket sets the assignee and notifies them.
func (s *TicketService) AssignTicket(ctx context.Context, ref, assignedTo, assignedToName, assignedBy, assignedByName string) (bool, error) {
	ticket, err := s.tickets.Get(ctx, ref)
	if err != nil {
		return false, err
	}
	if ticket == nil {
		return false, nil
	}

	now := time.Now()
	set := map[string]any{
		"assignedTo":     assignedTo,
		"assignedToName": assignedToName,
		"updatedAt":      now,
	}
	ok, err := s.tickets.Mutate(ctx, ref, set, nil)
	if err != nil || !ok {
		return ok, err
	}

	if assignedTo != "" && assignedTo != assignedBy {
		notification := &domain.TicketNotification{
			TicketID:  ticket.ID.Hex(),
			UserID:    assignedTo,
			Type:      domain.NotificationAssignment,
			Title:     "Ticket " + ticket.TicketNumber + " assigned to you",
			Message:   "Assigned by " + assignedByName,
			CreatedAt: now,
		}
		if err := s.notifications.Insert(ctx, notification); err != nil {
			return true, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID.Hex(),
		ActorID:  assignedBy,
		Payload: events.TicketAssignedPayload{
			AssignedTo:   assignedTo,
			AssignedByID: assignedBy,
		},
	})
	return true, nil
}

// UnassignTicket removes the assignment fields entirely rather than nulling
// them.
func (s *TicketService) UnassignTicket(ctx context.Context, ref string) (bool, error) {
	set := map[string]any{"updatedAt": time.Now()}
	return s.tickets.Mutate(ctx, ref, set, []string{"assignedTo", "assignedToName"})
}

// GetTicketStats aggregates counts and timing averages, optionally scoped to
// one requester or assignee.
func (s *TicketService) GetTicketStats(ctx context.Context, scope repository.StatsScope) (*domain.TicketStats, error) {
	return s.tickets.Stats(ctx, scope)
}

// EscalateTicket marks the ticket escalated and force-overwrites priority to
// high regardless of the current value, including critical.
func (s *TicketService) EscalateTicket(ctx context.Context, ref, escalatedBy, reason string) (bool, error) {
	ticket, err := s.tickets.Get(ctx, ref)
	if err != nil {
		return false, err
	}
	if ticket == nil {
		return false, nil
	}

	now := time.Now()
	set := map[string]any{
		"isEscalated":      true,
		"escalatedAt":      now,
		"escalatedBy":      escalatedBy,
		"escalationReason": reason,
		"priority":         domain.TicketPriorityHigh,
		"updatedAt":        now,
	}
	ok, err := s.tickets.Mutate(ctx, ref, set, nil)
	if err != nil || !ok {
		return ok, err
	}

	if ticket.AssignedTo != "" && ticket.AssignedTo != escalatedBy {
		notification := &domain.TicketNotification{
			TicketID:  ticket.ID.Hex(),
			UserID:    ticket.AssignedTo,
			Type:      domain.NotificationEscalation,
			Title:     "Ticket " + ticket.TicketNumber + " escalated",
			Message:   reason,
			CreatedAt: now,
		}
		if err := s.notifications.Insert(ctx, notification); err != nil {
			return true, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketEscalated,
		TicketID: ticket.ID.Hex(),
		ActorID:  escalatedBy,
		Payload: events.TicketEscalatedPayload{
			EscalatedBy: escalatedBy,
			Reason:      reason,
		},
	})
	return true, nil
}

// CreateNotification persists a notification directly.
func (s *TicketService) CreateNotification(ctx context.Context, notification *domain.TicketNotification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	return s.notifications.Insert(ctx, notification)
}

// GetNotifications returns a user's notifications sorted newest-first,
// capped at 50.
func (s *TicketService) GetNotifications(ctx context.Context, userID string, unreadOnly bool) ([]domain.TicketNotification, error) {
	return s.notifications.ListByUser(ctx, userID, unreadOnly, 50)
}

// MarkNotificationAsRead flags a notification as read.
func (s *TicketService) MarkNotificationAsRead(ctx context.Context, id string) (bool, error) {
	return s.notifications.MarkRead(ctx, id)
}

// CreateTemplate stores an admin-authored preset.
func (s *TicketService) CreateTemplate(ctx context.Context, template *domain.TicketTemplate) error {
	now := time.Now()
	template.CreatedAt = now
	template.UpdatedAt = now
	template.Usage = 0
	return s.templates.Insert(ctx, template)
}

// ListTemplates returns all templates.
func (s *TicketService) ListTemplates(ctx context.Context) ([]domain.TicketTemplate, error) {
	return s.templates.List(ctx)
}

// UseTemplate bumps the template's usage counter.
func (s *TicketService) UseTemplate(ctx context.Context, id string) (bool, error) {
	return s.templates.IncrementUsage(ctx, id)
}

// CreateAutomation stores an automation rule.
func (s *TicketService) CreateAutomation(ctx context.Context, automation *domain.TicketAutomation) error {
	now := time.Now()
	automation.CreatedAt = now
	automation.UpdatedAt = now
	automation.TriggerCount = 0
	return s.automations.Insert(ctx, automation)
}

// ListAutomations returns all automation rules.
func (s *TicketService) ListAutomations(ctx context.Context) ([]domain.TicketAutomation, error) {
	return s.automations.List(ctx)
}

// TriggerAutomation records trigger metadata only. The rule-evaluation
// engine lives elsewhere; conditions and actions are not executed here.
func (s *TicketService) TriggerAutomation(ctx context.Context, id string) (bool, error) {
	return s.automations.RecordTrigger(ctx, id, time.Now())
}

// IncrementViewCount bumps the monotonic view counter.
func (s *TicketService) IncrementViewCount(ctx context.Context, ref string) (bool, error) {
	return s.tickets.IncrementView(ctx, ref, time.Now())
}

// UpdateSatisfactionRating records a satisfaction rating. Last write wins.
func (s *TicketService) UpdateSatisfactionRating(ctx context.Context, ref string, rating int, feedback string) (bool, error) {
	now := time.Now()
	set := map[string]any{
		"satisfactionRating": rating,
		"ratedAt":            now,
		"updatedAt":          now,
	}
	if feedback != "" {
		set["satisfactionFeedback"] = feedback
	}
	return s.tickets.Mutate(ctx, ref, set, nil)
}

func (s *TicketService) publishSLABreach(ctx context.Context, ticket *domain.Ticket, kind string) {
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketSLABreached,
		TicketID: ticket.ID.Hex(),
		Payload: events.TicketSLABreachedPayload{
			TicketNumber: ticket.TicketNumber,
			Kind:         kind,
		},
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func minutesSince(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
