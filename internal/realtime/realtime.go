// Package realtime fans notifications out to connected clients over Redis pub/sub.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/metrics"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

const channelPrefix = "notifications:"

// Channel returns the pub/sub channel for one user.
func Channel(userID string) string {
	return channelPrefix + userID
}

// Hub publishes and subscribes to per-user notification channels
type Hub struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewHub creates a hub on the given Redis client
func NewHub(rdb *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{rdb: rdb, logger: logger}
}

// Publish pushes n to its recipient. Delivery is best effort: failures are
// logged and counted, never returned.
func (h *Hub) Publish(ctx context.Context, n *model.Notification) {
	if n == nil {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		metrics.RealtimePublishTotal.WithLabelValues("error").Inc()
		h.logger.Warn("marshal notification", zap.String("notification_id", n.ID), zap.Error(err))
		return
	}
	if err := h.rdb.Publish(ctx, Channel(n.UserID), data).Err(); err != nil {
		metrics.RealtimePublishTotal.WithLabelValues("error").Inc()
		h.logger.Warn("publish notification",
			zap.String("user_id", n.UserID),
			zap.String("notification_id", n.ID),
			zap.Error(err))
		return
	}
	metrics.RealtimePublishTotal.WithLabelValues("success").Inc()
}

// Subscription is a live feed of one user's notifications.
type Subscription struct {
	pubsub *redis.PubSub
	events chan []byte
}

// Events yields raw notification JSON until the subscription closes.
func (s *Subscription) Events() <-chan []byte {
	return s.events
}

// Close ends the subscription.
func (s *Subscription) Close() error {
	return s.pubsub.Close()
}

// Subscribe opens a feed for userID. The feed closes when ctx is done or
// Close is called.
func (h *Hub) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	pubsub := h.rdb.Subscribe(ctx, Channel(userID))
	// Wait for the subscribe confirmation so no publish is missed after return.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", Channel(userID), err)
	}

	sub := &Subscription{pubsub: pubsub, events: make(chan []byte, 16)}
	go func() {
		defer close(sub.events)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				pubsub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case sub.events <- []byte(msg.Payload):
				case <-ctx.Done():
					pubsub.Close()
					return
				}
			}
		}
	}()
	return sub, nil
}
