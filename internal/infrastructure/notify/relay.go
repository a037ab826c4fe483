package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"eventcore/internal/domain/entities"
)

// DefaultRelayChannel is the Redis pub/sub channel shared by all nodes.
const DefaultRelayChannel = "eventcore:notifications"

// Relay bridges hubs on different nodes through Redis pub/sub. It is registered
// on the local hub as an observer: messages that originated here are published to
// Redis, and messages received from other nodes are re-published locally.
type Relay struct {
	client  redis.UniversalClient
	channel string
	hub     *Hub
	logger  *slog.Logger
}

func NewRelay(client redis.UniversalClient, channel string, hub *Hub, logger *slog.Logger) *Relay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{client: client, channel: channel, hub: hub, logger: logger}
}

func (r *Relay) ID() string { return "relay:" + r.channel }

// Send publishes local-origin messages. Publish failures are logged and
// swallowed so a Redis outage never evicts the relay from the hub.
func (r *Relay) Send(ctx context.Context, msg entities.Notification) error {
	if msg.Origin != r.hub.Origin() {
		return nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		r.logger.Warn("relay: encode notification", "error", err)
		return nil
	}
	if err := r.client.Publish(ctx, r.channel, string(data)).Err(); err != nil {
		r.logger.Warn("relay: publish failed", "channel", r.channel, "event_id", msg.EventID, "error", err)
	}
	return nil
}

// Run subscribes to the channel until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			r.handle(m.Payload)
		}
	}
}

func (r *Relay) handle(payload string) {
	var msg entities.Notification
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		r.logger.Warn("relay: decode notification", "error", err)
		return
	}
	if msg.Origin == "" || msg.Origin == r.hub.Origin() {
		return
	}
	r.hub.Publish(msg)
}
