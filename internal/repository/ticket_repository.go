package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pegasus-hq/support-core/internal/domain"
)

// TicketFilter captures search parameters. Multi-value fields match "any of
// the listed values"; fields are AND'd together.
type TicketFilter struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Categories  []domain.TicketCategory
	AssignedTo  []string
	UserID      string
	Type        domain.TicketType
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// StatsScope optionally narrows statistics to one requester or one assignee.
type StatsScope struct {
	UserID     string
	AssignedTo string
}

// TicketRepository encapsulates ticket persistence. The ref argument accepted
// by lookup/update methods may be either the hex form of the store-native id
// or a human-facing ticketNumber.
type TicketRepository interface {
	Insert(ctx context.Context, ticket *domain.Ticket) error
	Get(ctx context.Context, ref string) (*domain.Ticket, error)
	UpdateFields(ctx context.Context, ref string, set map[string]any) (*domain.Ticket, error)
	Mutate(ctx context.Context, ref string, set map[string]any, unset []string) (bool, error)
	AppendMessage(ctx context.Context, ref string, msg domain.TicketMessage, set map[string]any) (bool, error)
	IncrementView(ctx context.Context, ref string, viewedAt time.Time) (bool, error)
	Delete(ctx context.Context, ref string) (bool, error)
	Search(ctx context.Context, filter TicketFilter, page, pageSize int) ([]domain.Ticket, int64, error)
	Stats(ctx context.Context, scope StatsScope) (*domain.TicketStats, error)
}

type ticketRepository struct {
	coll *mongo.Collection
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(coll *mongo.Collection) TicketRepository {
	return &ticketRepository{coll: coll}
}

// refQuery matches a ticket by native id or ticketNumber, whichever applies.
func refQuery(ref string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
		return bson.M{"$or": bson.A{
			bson.M{"_id": oid},
			bson.M{"ticketNumber": ref},
		}}
	}
	return bson.M{"ticketNumber": ref}
}

func (r *ticketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	res, err := r.coll.InsertOne(ctx, ticket)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		ticket.ID = oid
	}
	return nil
}

func (r *ticketRepository) Get(ctx context.Context, ref string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := r.coll.FindOne(ctx, refQuery(ref)).Decode(&ticket)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) UpdateFields(ctx context.Context, ref string, set map[string]any) (*domain.Ticket, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ticket domain.Ticket
	err := r.coll.FindOneAndUpdate(ctx, refQuery(ref), bson.M{"$set": toBSON(set)}, opts).Decode(&ticket)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Mutate(ctx context.Context, ref string, set map[string]any, unset []string) (bool, error) {
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = toBSON(set)
	}
	if len(unset) > 0 {
		fields := bson.M{}
		for _, field := range unset {
			fields[field] = ""
		}
		update["$unset"] = fields
	}
	if len(update) == 0 {
		return false, nil
	}
	res, err := r.coll.UpdateOne(ctx, refQuery(ref), update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// AppendMessage pushes the message, bumps messageCount and applies the
// denormalized last-message fields in one update so the count invariant holds.
func (r *ticketRepository) AppendMessage(ctx context.Context, ref string, msg domain.TicketMessage, set map[string]any) (bool, error) {
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$inc":  bson.M{"messageCount": 1},
		"$set":  toBSON(set),
	}
	res, err := r.coll.UpdateOne(ctx, refQuery(ref), update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *ticketRepository) IncrementView(ctx context.Context, ref string, viewedAt time.Time) (bool, error) {
	update := bson.M{
		"$inc": bson.M{"viewCount": 1},
		"$set": bson.M{"lastViewedAt": viewedAt},
	}
	res, err := r.coll.UpdateOne(ctx, refQuery(ref), update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *ticketRepository) Delete(ctx context.Context, ref string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, refQuery(ref))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *ticketRepository) Search(ctx context.Context, filter TicketFilter, page, pageSize int) ([]domain.Ticket, int64, error) {
	query := buildTicketQuery(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	tickets := []domain.Ticket{}
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// buildTicketQuery assembles the conjunctive search query. Kept as a pure
// function so the filter semantics are testable without a live store.
func buildTicketQuery(filter TicketFilter) bson.M {
	query := bson.M{}

	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}
	if len(filter.Priorities) > 0 {
		query["priority"] = bson.M{"$in": filter.Priorities}
	}
	if len(filter.Categories) > 0 {
		query["category"] = bson.M{"$in": filter.Categories}
	}
	if len(filter.AssignedTo) > 0 {
		query["assignedTo"] = bson.M{"$in": filter.AssignedTo}
	}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Search != "" {
		regex := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"ticketNumber": regex},
		}
	}
	if filter.CreatedFrom != nil || filter.CreatedTo != nil {
		bounds := bson.M{}
		if filter.CreatedFrom != nil {
			bounds["$gte"] = *filter.CreatedFrom
		}
		if filter.CreatedTo != nil {
			bounds["$lte"] = *filter.CreatedTo
		}
		query["createdAt"] = bounds
	}

	return query
}

func (r *ticketRepository) Stats(ctx context.Context, scope StatsScope) (*domain.TicketStats, error) {
	base := bson.M{}
	if scope.UserID != "" {
		base["userId"] = scope.UserID
	}
	if scope.AssignedTo != "" {
		base["assignedTo"] = scope.AssignedTo
	}

	stats := &domain.TicketStats{
		ByStatus:   map[domain.TicketStatus]int64{},
		ByPriority: map[domain.TicketPriority]int64{},
		ByCategory: map[domain.TicketCategory]int64{},
		TopAgents:  []domain.AgentStat{},
	}

	total, err := r.coll.CountDocuments(ctx, base)
	if err != nil {
		return nil, err
	}
	stats.Total = total

	statusCounts, err := r.countBy(ctx, "status", base)
	if err != nil {
		return nil, err
	}
	for value, count := range statusCounts {
		stats.ByStatus[domain.TicketStatus(value)] = count
	}

	priorityCounts, err := r.countBy(ctx, "priority", base)
	if err != nil {
		return nil, err
	}
	for value, count := range priorityCounts {
		stats.ByPriority[domain.TicketPriority(value)] = count
	}

	categoryCounts, err := r.countBy(ctx, "category", base)
	if err != nil {
		return nil, err
	}
	for value, count := range categoryCounts {
		stats.ByCategory[domain.TicketCategory(value)] = count
	}

	stats.AvgResolutionHours, err = r.averageHours(ctx, base, "resolvedAt")
	if err != nil {
		return nil, err
	}
	stats.AvgFirstResponseHours, err = r.averageHours(ctx, base, "firstResponseAt")
	if err != nil {
		return nil, err
	}
	stats.AvgSatisfaction, err = r.averageSatisfaction(ctx, base)
	if err != nil {
		return nil, err
	}

	breachedQuery := bson.M{"sla.breached": true}
	for key, value := range base {
		breachedQuery[key] = value
	}
	stats.SLABreached, err = r.coll.CountDocuments(ctx, breachedQuery)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *ticketRepository) countBy(ctx context.Context, field string, base bson.M) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: base}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Value string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Value] = row.Count
	}
	return counts, nil
}

// averageHours computes the mean of (field - createdAt) in hours over tickets
// where field is set.
func (r *ticketRepository) averageHours(ctx context.Context, base bson.M, field string) (float64, error) {
	match := bson.M{field: bson.M{"$ne": nil, "$exists": true}}
	for key, value := range base {
		match[key] = value
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$project", Value: bson.M{
			"hours": bson.M{"$divide": bson.A{
				bson.M{"$subtract": bson.A{"$" + field, "$createdAt"}},
				3600000,
			}},
		}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$hours"}}}},
	}
	return r.aggregateAverage(ctx, pipeline)
}

func (r *ticketRepository) averageSatisfaction(ctx context.Context, base bson.M) (float64, error) {
	match := bson.M{"satisfactionRating": bson.M{"$ne": nil, "$exists": true}}
	for key, value := range base {
		match[key] = value
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$satisfactionRating"}}}},
	}
	return r.aggregateAverage(ctx, pipeline)
}

func (r *ticketRepository) aggregateAverage(ctx context.Context, pipeline mongo.Pipeline) (float64, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Avg, nil
}

func toBSON(fields map[string]any) bson.M {
	doc := bson.M{}
	for key, value := range fields {
		doc[key] = value
	}
	return doc
}
