package ratelimiter

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBucket(t *testing.T) (*TokenBucket, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, nil), mr
}

func TestPerMinute(t *testing.T) {
	assert.Equal(t, BucketConfig{}, PerMinute(0))
	cfg := PerMinute(120)
	assert.Equal(t, int64(120), cfg.Capacity)
	assert.InDelta(t, 2.0, cfg.RefillRate, 1e-9)
}

func TestAllow_NilLimiterFailsOpen(t *testing.T) {
	var l *TokenBucket
	allowed, retry, err := l.Allow(context.Background(), BucketSearch, 1)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, retry)
	l.SetBucket(BucketSearch, PerMinute(1))
	assert.Nil(t, New(nil, nil))
}

func TestAllow_UnconfiguredBucketIsUnlimited(t *testing.T) {
	l, _ := newTestBucket(t)
	for i := 0; i < 10; i++ {
		allowed, _, err := l.Allow(context.Background(), "other", 1)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestAllow_ExhaustsAndReportsRetryAfter(t *testing.T) {
	l, _ := newTestBucket(t)
	frozen := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return frozen }
	l.SetBucket(BucketSearch, BucketConfig{Capacity: 3, RefillRate: 0.5})

	for i := 0; i < 3; i++ {
		allowed, retry, err := l.Allow(context.Background(), BucketSearch, 1)
		require.NoError(t, err)
		require.True(t, allowed, "call %d", i)
		assert.Zero(t, retry)
	}
	allowed, retry, err := l.Allow(context.Background(), BucketSearch, 1)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 2*time.Second, retry)

	// Two seconds later one token has refilled.
	l.now = func() time.Time { return frozen.Add(2 * time.Second) }
	allowed, _, err = l.Allow(context.Background(), BucketSearch, 1)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllow_RedisDownFailsOpen(t *testing.T) {
	l, mr := newTestBucket(t)
	l.SetBucket(BucketAI, PerMinute(1))
	mr.Close()

	allowed, _, err := l.Allow(context.Background(), BucketAI, 1)
	assert.Error(t, err)
	assert.True(t, allowed)
}
