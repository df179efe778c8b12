package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := New(mr.Addr())
	defer rdb.Close()
	ctx := context.Background()

	first, err := MarkOnce(ctx, rdb, "dedup:fulfillment:e1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := MarkOnce(ctx, rdb, "dedup:fulfillment:e1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	ok, err := Exists(ctx, rdb, "dedup:fulfillment:e1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = Exists(ctx, rdb, "dedup:fulfillment:e1")
	require.NoError(t, err)
	assert.False(t, ok)
}
