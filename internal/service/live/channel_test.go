package live_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-volunteer/internal/service/live"
)

func newChannel(t *testing.T) live.Channel {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return live.NewRedisChannel(client)
}

func receive(t *testing.T, sub *live.Subscription) live.Envelope {
	t.Helper()
	select {
	case env, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for live event")
	}
	return live.Envelope{}
}

func TestRedisChannel_DirectAndBroadcast(t *testing.T) {
	ch := newChannel(t)
	ctx := context.Background()
	recipient := uuid.New()

	sub, err := ch.Subscribe(ctx, recipient)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, ch.EmitToRecipient(ctx, recipient, "PROBLEM_APPROVED", map[string]int{"points": 20}))
	env := receive(t, sub)
	assert.Equal(t, "PROBLEM_APPROVED", env.Event)

	var payload map[string]int
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, 20, payload["points"])

	require.NoError(t, ch.Broadcast(ctx, "NEW_EVENT", map[string]string{"title": "Cleanup"}))
	env = receive(t, sub)
	assert.Equal(t, "NEW_EVENT", env.Event)
	assert.False(t, env.SentAt.IsZero())
}

func TestRedisChannel_OtherRecipientNotDelivered(t *testing.T) {
	ch := newChannel(t)
	ctx := context.Background()
	me, other := uuid.New(), uuid.New()

	sub, err := ch.Subscribe(ctx, me)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, ch.EmitToRecipient(ctx, other, "PROBLEM_REJECTED", nil))
	require.NoError(t, ch.EmitToRecipient(ctx, me, "PROBLEM_RESOLVED", nil))

	env := receive(t, sub)
	assert.Equal(t, "PROBLEM_RESOLVED", env.Event)
}

func TestSubscription_CloseEndsEvents(t *testing.T) {
	ch := newChannel(t)
	sub, err := ch.Subscribe(context.Background(), uuid.New())
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}
