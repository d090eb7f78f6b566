package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type tagKey string

func TestInMemoryCacheManager_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[tagKey, []byte]("ldml", DefaultExpiration, DefaultCleanupInterval)

	_, ok := cache.Get(ctx, "en")
	require.False(t, ok)

	cache.Set(ctx, "en", []byte("<ldml/>"), 0)
	got, ok := cache.Get(ctx, "en")
	require.True(t, ok)
	require.Equal(t, []byte("<ldml/>"), got)
	require.Equal(t, 1, cache.Len())

	cache.Delete(ctx, "en")
	_, ok = cache.Get(ctx, "en")
	require.False(t, ok)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("misses", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "fr", "404", 20*time.Millisecond)
	_, ok := cache.Get(ctx, "fr")
	require.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(ctx, "fr")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("refresh", DefaultExpiration, DefaultCleanupInterval)

	_, ok := cache.GetWithRefresh(ctx, "missing", time.Minute)
	require.False(t, ok)

	cache.Set(ctx, "k", 7, 50*time.Millisecond)
	v, ok := cache.GetWithRefresh(ctx, "k", time.Hour)
	require.True(t, ok)
	require.Equal(t, 7, v)

	time.Sleep(80 * time.Millisecond)
	_, ok = cache.Get(ctx, "k")
	require.True(t, ok, "refresh must extend the TTL")
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("flush", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "a", 1, 0)
	cache.Set(ctx, "b", 2, 0)

	cache.Flush(ctx)
	require.Zero(t, cache.Len())
}

func TestReadThroughCache(t *testing.T) {
	ctx := context.Background()
	calls := 0
	load := func(_ context.Context, id string) (string, error) {
		calls++
		if id == "bad" {
			return "", errors.New("not found")
		}
		return "body:" + id, nil
	}

	t.Run("caches successes", func(t *testing.T) {
		calls = 0
		rt := NewReadThroughCache[string, string, string](
			NewInMemoryCacheManager[string, string]("rt", DefaultExpiration, DefaultCleanupInterval), load, false)

		for range 3 {
			v, err := rt.Get(ctx, "en", "en", time.Minute)
			require.NoError(t, err)
			require.Equal(t, "body:en", v)
		}
		require.Equal(t, 1, calls)

		rt.Invalidate(ctx, "en")
		_, err := rt.Get(ctx, "en", "en", time.Minute)
		require.NoError(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("does not cache errors", func(t *testing.T) {
		calls = 0
		rt := NewReadThroughCache[string, string, string](
			NewInMemoryCacheManager[string, string]("rt", DefaultExpiration, DefaultCleanupInterval), load, false)

		_, err := rt.Get(ctx, "bad", "bad", time.Minute)
		require.Error(t, err)
		_, err = rt.Get(ctx, "bad", "bad", time.Minute)
		require.Error(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("skip cache always loads", func(t *testing.T) {
		calls = 0
		rt := NewReadThroughCache[string, string, string](
			NewInMemoryCacheManager[string, string]("rt", DefaultExpiration, DefaultCleanupInterval), load, true)

		_, _ = rt.Get(ctx, "en", "en", time.Minute)
		_, _ = rt.Get(ctx, "en", "en", time.Minute)
		require.Equal(t, 2, calls)
	})
}
