//go:build integration

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func pending(t *testing.T, client *redis.Client, stream, group string) int64 {
	t.Helper()
	p, err := client.XPending(context.Background(), stream, group).Result()
	require.NoError(t, err)
	return p.Count
}

func TestPublishAndConsume(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	const stream, group = "test.events", "test-group"

	var handled []Event
	sub := NewSubscriber(client, SubscriberConfig{
		Group: group, Consumer: "c1", Stream: stream,
		BlockDuration: 100 * time.Millisecond,
		Handler: func(_ context.Context, e Event) error {
			handled = append(handled, e)
			return nil
		},
	})
	require.NoError(t, sub.ensureGroup(ctx))

	pub := NewPublisher(client)
	require.NoError(t, pub.Publish(ctx, stream, ApplicationCreated, ApplicationCreatedEvent{ApplicationID: 5}))
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{Stream: stream, Values: map[string]any{"junk": "1"}}).Err())

	require.NoError(t, sub.Poll(ctx))

	require.Len(t, handled, 1)
	id, err := handled[0].ApplicationID()
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Zero(t, pending(t, client, stream, group), "handled and malformed entries are acknowledged")
}

func TestFailedEntriesAreReclaimed(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	const stream, group = "test.events", "test-group"

	fail := true
	calls := 0
	sub := NewSubscriber(client, SubscriberConfig{
		Group: group, Consumer: "c1", Stream: stream,
		BlockDuration: 100 * time.Millisecond,
		ClaimIdle:     time.Millisecond,
		Handler: func(context.Context, Event) error {
			calls++
			if fail {
				return errors.New("downstream unavailable")
			}
			return nil
		},
	})
	require.NoError(t, sub.ensureGroup(ctx))
	require.NoError(t, NewPublisher(client).Publish(ctx, stream, ApplicationDeleted, ApplicationDeletedEvent{ApplicationID: 9}))

	require.NoError(t, sub.Poll(ctx))
	assert.Equal(t, int64(1), pending(t, client, stream, group))

	fail = false
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, sub.Poll(ctx))
	assert.Equal(t, 2, calls)
	assert.Zero(t, pending(t, client, stream, group))
}
