package live

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	userChannelPrefix = "notifications:user:"
	BroadcastChannel  = "notifications:broadcast"
)

// Channel pushes transient events to currently connected clients.
type Channel interface {
	EmitToRecipient(ctx context.Context, recipientID uuid.UUID, event string, payload any) error
	Broadcast(ctx context.Context, event string, payload any) error
	Subscribe(ctx context.Context, recipientID uuid.UUID) (*Subscription, error)
}

// Envelope is the wire format of every published message.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	SentAt  time.Time       `json:"sent_at"`
}

type redisChannel struct {
	redis *redis.Client
	now   func() time.Time
}

func NewRedisChannel(client *redis.Client) Channel {
	return &redisChannel{redis: client, now: time.Now}
}

func UserChannel(recipientID uuid.UUID) string {
	return userChannelPrefix + recipientID.String()
}

func (c *redisChannel) EmitToRecipient(ctx context.Context, recipientID uuid.UUID, event string, payload any) error {
	return c.publish(ctx, UserChannel(recipientID), event, payload)
}

func (c *redisChannel) Broadcast(ctx context.Context, event string, payload any) error {
	return c.publish(ctx, BroadcastChannel, event, payload)
}

func (c *redisChannel) publish(ctx context.Context, channel, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal live payload: %w", err)
	}
	msg, err := json.Marshal(Envelope{Event: event, Payload: raw, SentAt: c.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal live envelope: %w", err)
	}
	if err := c.redis.Publish(ctx, channel, msg).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}

func (c *redisChannel) Subscribe(ctx context.Context, recipientID uuid.UUID) (*Subscription, error) {
	pubsub := c.redis.Subscribe(ctx, UserChannel(recipientID), BroadcastChannel)
	// Wait for the subscription confirmation so nothing published afterwards is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return newSubscription(pubsub), nil
}

// Subscription delivers decoded envelopes until Close is called.
type Subscription struct {
	pubsub *redis.PubSub
	out    chan Envelope
	done   chan struct{}
	once   sync.Once
}

func newSubscription(pubsub *redis.PubSub) *Subscription {
	s := &Subscription{pubsub: pubsub, out: make(chan Envelope, 16), done: make(chan struct{})}
	go s.pump()
	return s
}

func (s *Subscription) pump() {
	defer close(s.out)
	for msg := range s.pubsub.Channel() {
		var env Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			continue
		}
		select {
		case s.out <- env:
		case <-s.done:
			return
		}
	}
}

func (s *Subscription) Events() <-chan Envelope {
	return s.out
}

func (s *Subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}
