package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pegasus-hq/support-core/internal/domain"
	"github.com/pegasus-hq/support-core/internal/events"
	"github.com/pegasus-hq/support-core/internal/repository"
)

// fakeTicketRepo is an in-memory stand-in for the ticket collection. It
// interprets the same update keys the real repository forwards to the store.
type fakeTicketRepo struct {
	tickets []*domain.Ticket
}

func (f *fakeTicketRepo) find(ref string) *domain.Ticket {
	for _, t := range f.tickets {
		if t.ID.Hex() == ref || t.TicketNumber == ref {
			return t
		}
	}
	return nil
}

func (f *fakeTicketRepo) Insert(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = primitive.NewObjectID()
	f.tickets = append(f.tickets, ticket)
	return nil
}

func (f *fakeTicketRepo) Get(_ context.Context, ref string) (*domain.Ticket, error) {
	t := f.find(ref)
	if t == nil {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTicketRepo) UpdateFields(_ context.Context, ref string, set map[string]any) (*domain.Ticket, error) {
	t := f.find(ref)
	if t == nil {
		return nil, nil
	}
	applySet(t, set)
	copied := *t
	return &copied, nil
}

func (f *fakeTicketRepo) Mutate(_ context.Context, ref string, set map[string]any, unset []string) (bool, error) {
	t := f.find(ref)
	if t == nil {
		return false, nil
	}
	applySet(t, set)
	for _, field := range unset {
		switch field {
		case "assignedTo":
			t.AssignedTo = ""
		case "assignedToName":
			t.AssignedToName = ""
		}
	}
	return true, nil
}

func (f *fakeTicketRepo) AppendMessage(_ context.Context, ref string, msg domain.TicketMessage, set map[string]any) (bool, error) {
	t := f.find(ref)
	if t == nil {
		return false, nil
	}
	t.Messages = append(t.Messages, msg)
	t.MessageCount++
	applySet(t, set)
	return true, nil
}

func (f *fakeTicketRepo) IncrementView(_ context.Context, ref string, viewedAt time.Time) (bool, error) {
	t := f.find(ref)
	if t == nil {
		return false, nil
	}
	t.ViewCount++
	t.LastViewedAt = &viewedAt
	return true, nil
}

func (f *fakeTicketRepo) Delete(_ context.Context, ref string) (bool, error) {
	for i, t := range f.tickets {
		if t.ID.Hex() == ref || t.TicketNumber == ref {
			f.tickets = append(f.tickets[:i], f.tickets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTicketRepo) Search(_ context.Context, filter repository.TicketFilter, page, pageSize int) ([]domain.Ticket, int64, error) {
	matched := []domain.Ticket{}
	for _, t := range f.tickets {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		matched = append(matched, *t)
	}
	total := int64(len(matched))

	start := (page - 1) * pageSize
	if start > len(matched) {
		return []domain.Ticket{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeTicketRepo) Stats(_ context.Context, _ repository.StatsScope) (*domain.TicketStats, error) {
	return &domain.TicketStats{
		Total:      int64(len(f.tickets)),
		ByStatus:   map[domain.TicketStatus]int64{},
		ByPriority: map[domain.TicketPriority]int64{},
		ByCategory: map[domain.TicketCategory]int64{},
		TopAgents:  []domain.AgentStat{},
	}, nil
}

func applySet(t *domain.Ticket, set map[string]any) {
	for key, value := range set {
		switch key {
		case "title":
			t.Title = value.(string)
		case "description":
			t.Description = value.(string)
		case "status":
			t.Status = value.(domain.TicketStatus)
		case "priority":
			t.Priority = value.(domain.TicketPriority)
		case "category":
			t.Category = value.(domain.TicketCategory)
		case "type":
			t.Type = value.(domain.TicketType)
		case "assignedTo":
			t.AssignedTo = value.(string)
		case "assignedToName":
			t.AssignedToName = value.(string)
		case "updatedAt":
			t.UpdatedAt = value.(time.Time)
		case "resolvedAt":
			ts := value.(time.Time)
			t.ResolvedAt = &ts
		case "closedAt":
			ts := value.(time.Time)
			t.ClosedAt = &ts
		case "firstResponseAt":
			ts := value.(time.Time)
			t.FirstResponseAt = &ts
		case "escalatedAt":
			ts := value.(time.Time)
			t.EscalatedAt = &ts
		case "ratedAt":
			ts := value.(time.Time)
			t.RatedAt = &ts
		case "lastMessageAt":
			ts := value.(time.Time)
			t.LastMessageAt = &ts
		case "lastMessageBy":
			t.LastMessageBy = value.(string)
		case "sla.firstResponseTime":
			minutes := value.(int)
			t.SLA.FirstResponseTime = &minutes
		case "sla.resolutionTime":
			minutes := value.(int)
			t.SLA.ResolutionTime = &minutes
		case "sla.breached":
			t.SLA.Breached = value.(bool)
		case "isEscalated":
			t.IsEscalated = value.(bool)
		case "escalatedBy":
			t.EscalatedBy = value.(string)
		case "escalationReason":
			t.EscalationReason = value.(string)
		case "satisfactionRating":
			rating := value.(int)
			t.SatisfactionRating = &rating
		case "satisfactionFeedback":
			t.SatisfactionFeedback = value.(string)
		case "timespent":
			t.TimeSpent = value.(int)
		case "customFields":
			t.CustomFields = value.(map[string]any)
		}
	}
}

type fakeNotificationRepo struct {
	inserted []*domain.TicketNotification
}

func (f *fakeNotificationRepo) Insert(_ context.Context, notification *domain.TicketNotification) error {
	notification.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, notification)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, limit int64) ([]domain.TicketNotification, error) {
	out := []domain.TicketNotification{}
	for _, n := range f.inserted {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id string) (bool, error) {
	for _, n := range f.inserted {
		if n.ID.Hex() == id {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

// fakeDispatcher records every published event.
type fakeDispatcher struct {
	published []events.Event
}

func (f *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func (f *fakeDispatcher) ofType(eventType events.EventType) []events.Event {
	out := []events.Event{}
	for _, e := range f.published {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeUserRepo mirrors the dual-identifier lookup of the real repository:
// ObjectID-shaped refs match _id first, then fall back to the string id field.
type fakeUserRepo struct {
	users []*domain.User
}

func (f *fakeUserRepo) find(ref string) *domain.User {
	if _, err := primitive.ObjectIDFromHex(ref); err == nil {
		for _, u := range f.users {
			if u.ID.Hex() == ref {
				return u
			}
		}
	}
	for _, u := range f.users {
		if u.AltID != "" && u.AltID == ref {
			return u
		}
	}
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByRef(_ context.Context, ref string) (*domain.User, error) {
	u := f.find(ref)
	if u == nil {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) ResolveAndUpdate(_ context.Context, ref string, update repository.UserUpdate) (int64, error) {
	u := f.find(ref)
	if u == nil {
		return 0, nil
	}
	for key, value := range update.Set {
		switch key {
		case "isBanned":
			u.IsBanned = value.(bool)
		case "bannedAt":
			ts := value.(time.Time)
			u.BannedAt = &ts
		case "banReason":
			u.BanReason = value.(string)
		case "isAdmin":
			u.IsAdmin = value.(bool)
		case "tokenLimit":
			u.TokenLimit = value.(int)
		case "updatedAt":
			u.UpdatedAt = value.(time.Time)
		}
	}
	for _, field := range update.Unset {
		switch field {
		case "bannedAt":
			u.BannedAt = nil
		case "banReason":
			u.BanReason = ""
		}
	}
	return 1, nil
}

type fakeUsageRepo struct {
	totals map[string]int
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{totals: map[string]int{}}
}

func (f *fakeUsageRepo) Get(_ context.Context, userID string) (*domain.TokenUsage, error) {
	total, ok := f.totals[userID]
	if !ok {
		return nil, nil
	}
	return &domain.TokenUsage{UserID: userID, TotalTokens: total}, nil
}

func (f *fakeUsageRepo) SetTotal(_ context.Context, userID string, total int) error {
	f.totals[userID] = total
	return nil
}

func (f *fakeUsageRepo) IncrementTotal(_ context.Context, userID string, delta int) error {
	f.totals[userID] += delta
	return nil
}
