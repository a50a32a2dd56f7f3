package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher forwards domain events to a Redis channel so dashboard
// consumers outside this process can react without polling.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher creates a publisher for the configured channel.
func NewRedisPublisher(client *redis.Client, channel string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, logger: logger}
}

// Forward serializes and publishes the event. Publish failures are logged,
// not propagated: event fan-out is best effort and must never fail the
// originating store write.
func (p *RedisPublisher) Forward(ctx context.Context, event Event) error {
	if p == nil || p.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("event marshal failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		return nil
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
	return nil
}
