package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("search", "video", "unboxing", "")
		k2 := CacheKey("search", "video", "unboxing", "")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("search", "video", "unboxing", "")
		k2 := CacheKey("search", "video", "unboxing", "CAUQAA")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if k[:3] != "yt:" {
			t.Errorf("expected yt: prefix, got %q", k[:3])
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	c := NewCache(nil, time.Minute, 100)
	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	_, ok := CacheLoad[[]string](ctx, c, key)
	assert.False(t, ok, "expected miss on empty cache")

	CacheStore(ctx, c, key, []string{"UCa", "UCb"})

	got, ok := CacheLoad[[]string](ctx, c, key)
	require.True(t, ok)
	assert.Equal(t, []string{"UCa", "UCb"}, got)
}

func TestCacheNilIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	CacheStore(ctx, c, "k", 1)
	_, ok := CacheLoad[int](ctx, c, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCacheExpiration(t *testing.T) {
	c := NewCache(nil, time.Millisecond, 100)
	ctx := context.Background()
	key := CacheKey("test", "expiry")

	c.Set(ctx, key, []byte("temp"))
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok, "expected miss after TTL expiry")
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(nil, time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		c.Set(ctx, CacheKey("evict", fmt.Sprintf("item-%d", i)), []byte(fmt.Sprintf("v%d", i)))
	}
	assert.LessOrEqual(t, c.Len(), 3)
}

func TestCacheRedisL2(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	key := CacheKey("channels", "UCa,UCb")

	first := NewCache(rdb, time.Minute, 100)
	first.Set(ctx, key, []byte(`{"ok":true}`))
	assert.True(t, mr.Exists(key))

	// A fresh cache (new run) has an empty L1 but shares L2.
	second := NewCache(rdb, time.Minute, 100)
	data, ok := second.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `{"ok":true}`, string(data))
	assert.Equal(t, 1, second.Len(), "L2 hit should populate L1")
}

func TestOpenRedisEmptyURL(t *testing.T) {
	assert.Nil(t, OpenRedis(context.Background(), ""))
	assert.Nil(t, OpenRedis(context.Background(), "::not a url::"))
}
