//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)

	client := goredis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestViewCacheRoundTrip(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	cache := NewViewCache[view](client, time.Minute)

	_, ok := cache.Get(ctx, "view:1")
	require.False(t, ok)

	cache.Set(ctx, "view:1", &view{Name: "JOHN DOE"})
	got, ok := cache.Get(ctx, "view:1")
	require.True(t, ok)
	require.Equal(t, "JOHN DOE", got.Name)

	ttl, err := client.TTL(ctx, "view:1").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	cache.Delete(ctx, "view:1")
	_, ok = cache.Get(ctx, "view:1")
	require.False(t, ok)
}

func TestViewCacheInvalidatePrefix(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	cache := NewViewCache[view](client, 0)

	for _, k := range []string{"report:a", "report:b", "report:c", "other:a"} {
		cache.Set(ctx, k, &view{Name: k})
	}

	n, err := cache.InvalidatePrefix(ctx, "report:")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, ok := cache.Get(ctx, "other:a")
	require.True(t, ok)
	_, ok = cache.Get(ctx, "report:b")
	require.False(t, ok)
}
