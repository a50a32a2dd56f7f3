package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pegasus-hq/support-core/internal/domain"
)

func TestRefQueryHexMatchesBothForms(t *testing.T) {
	oid := primitive.NewObjectID()
	query := refQuery(oid.Hex())

	clauses, ok := query["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, clauses, 2)
	assert.Equal(t, bson.M{"_id": oid}, clauses[0])
	assert.Equal(t, bson.M{"ticketNumber": oid.Hex()}, clauses[1])
}

func TestRefQueryTicketNumberOnly(t *testing.T) {
	query := refQuery("TKT-123456ABCD")
	assert.Equal(t, bson.M{"ticketNumber": "TKT-123456ABCD"}, query)
	assert.NotContains(t, query, "$or")
}

func TestBuildTicketQueryEmptyFilter(t *testing.T) {
	assert.Empty(t, buildTicketQuery(TicketFilter{}))
}

func TestBuildTicketQueryMultiValueFields(t *testing.T) {
	query := buildTicketQuery(TicketFilter{
		Statuses:   []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress},
		Priorities: []domain.TicketPriority{domain.TicketPriorityHigh},
		Categories: []domain.TicketCategory{domain.TicketCategoryBug},
		AssignedTo: []string{"agent-1", "agent-2"},
		UserID:     "user-1",
		Type:       domain.TicketTypePublic,
	})

	assert.Equal(t, bson.M{"$in": []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress}}, query["status"])
	assert.Equal(t, bson.M{"$in": []domain.TicketPriority{domain.TicketPriorityHigh}}, query["priority"])
	assert.Equal(t, bson.M{"$in": []domain.TicketCategory{domain.TicketCategoryBug}}, query["category"])
	assert.Equal(t, bson.M{"$in": []string{"agent-1", "agent-2"}}, query["assignedTo"])
	assert.Equal(t, "user-1", query["userId"])
	assert.Equal(t, domain.TicketTypePublic, query["type"])
}

func TestBuildTicketQuerySearchSpansFields(t *testing.T) {
	query := buildTicketQuery(TicketFilter{Search: "login"})

	clauses, ok := query["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, clauses, 3)

	regex := bson.M{"$regex": "login", "$options": "i"}
	assert.Contains(t, clauses, bson.M{"title": regex})
	assert.Contains(t, clauses, bson.M{"description": regex})
	assert.Contains(t, clauses, bson.M{"ticketNumber": regex})
}

func TestBuildTicketQueryDateBoundsInclusive(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	query := buildTicketQuery(TicketFilter{CreatedFrom: &from, CreatedTo: &to})
	assert.Equal(t, bson.M{"$gte": from, "$lte": to}, query["createdAt"])

	query = buildTicketQuery(TicketFilter{CreatedFrom: &from})
	assert.Equal(t, bson.M{"$gte": from}, query["createdAt"])

	query = buildTicketQuery(TicketFilter{CreatedTo: &to})
	assert.Equal(t, bson.M{"$lte": to}, query["createdAt"])
}
