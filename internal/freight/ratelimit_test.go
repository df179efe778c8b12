package freight_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: now}
	l := freight.NewMemoryLimiter(10, time.Minute)
	l.Now = clk.now

	for i := 0; i < 10; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, d.Allowed, "request %d", i+1)
		assert.Equal(t, 9-i, d.Remaining)
	}
	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed, "11th request in the window is rejected")
	assert.Equal(t, now.Add(time.Minute), d.ResetAt)

	other, _ := l.Allow(ctx, "10.0.0.2")
	assert.True(t, other.Allowed, "keys are independent")

	clk.advance(time.Minute)
	d, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, d.Allowed, "new window")
	assert.Equal(t, 9, d.Remaining)
}

func TestRedisLimiter(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	l := &freight.RedisLimiter{Client: rdb, Limit: 10, Window: time.Minute}
	for i := 0; i < 10; i++ {
		d, err := l.Allow(ctx, "203.0.113.5")
		require.NoError(t, err)
		require.True(t, d.Allowed)
	}
	d, err := l.Allow(ctx, "203.0.113.5")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	ttl := mr.TTL("ratelimit:freight:203.0.113.5")
	assert.True(t, ttl > 0 && ttl <= time.Minute, "ttl %s", ttl)

	mr.FastForward(time.Minute)
	d, err = l.Allow(ctx, "203.0.113.5")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 9, d.Remaining)
}

func TestRedisLimiterRepairsMissingTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, mr.Set("ratelimit:freight:k", "3"))
	l := &freight.RedisLimiter{Client: rdb, Limit: 10, Window: time.Minute}
	d, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 6, d.Remaining)
	assert.Greater(t, mr.TTL("ratelimit:freight:k"), time.Duration(0))
}
