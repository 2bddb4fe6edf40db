package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Deliverer pushes a stored notification to connected clients.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

// NoOpDeliverer drops every notification. Used when no realtime channel is configured.
type NoOpDeliverer struct{}

func (NoOpDeliverer) Deliver(context.Context, Notification) error { return nil }

// RedisDeliverer publishes notifications as JSON on a per-user pub/sub channel
// so realtime listeners can refresh the inbox badge.
type RedisDeliverer struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisDeliverer returns a deliverer publishing to "<prefix><user id>".
// An empty prefix defaults to "notifications:".
func NewRedisDeliverer(client redis.UniversalClient, prefix string) *RedisDeliverer {
	if client == nil {
		panic("notifications: redis client is required")
	}
	if prefix == "" {
		prefix = "notifications:"
	}
	return &RedisDeliverer{client: client, prefix: prefix}
}

// Channel returns the pub/sub channel for a user.
func (d *RedisDeliverer) Channel(userID string) string {
	return d.prefix + userID
}

// Deliver publishes n as JSON on the user's channel.
func (d *RedisDeliverer) Deliver(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := d.client.Publish(ctx, d.Channel(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}
