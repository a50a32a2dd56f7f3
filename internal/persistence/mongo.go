package persistence

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/pegasus-hq/support-core/internal/config"
)

// Collection names in the ticket database.
const (
	CollectionTickets       = "tickets"
	CollectionNotifications = "notifications"
	CollectionTemplates     = "templates"
	CollectionAutomations   = "automations"
)

// Collection names in the identity database.
const (
	CollectionUsers      = "user"
	CollectionTokenUsage = "user_token_usage"
)

// Mongo wraps a shared mongo client with handles to both databases. The
// client manages its own connection pool; repositories borrow collections
// per call and never hold connection state.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
	AuthDB *mongo.Database
}

// NewMongo connects to the document store and pings it.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout())

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("connected to mongodb",
		zap.String("database", cfg.Database),
		zap.String("auth_database", cfg.AuthDatabase))

	return &Mongo{
		Client: client,
		DB:     client.Database(cfg.Database),
		AuthDB: client.Database(cfg.AuthDatabase),
	}, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m != nil && m.Client != nil {
		_ = m.Client.Disconnect(ctx)
	}
}

// Ping verifies store connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return mongo.ErrClientDisconnected
	}
	return m.Client.Ping(ctx, readpref.Primary())
}
