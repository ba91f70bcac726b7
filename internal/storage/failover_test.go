package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenKV fails every operation after Break is called.
type brokenKV struct {
	inner  KV
	broken bool
}

var errKVDown = errors.New("kv down")

func (b *brokenKV) Get(ctx context.Context, key string) (string, bool, error) {
	if b.broken {
		return "", false, errKVDown
	}
	return b.inner.Get(ctx, key)
}

func (b *brokenKV) Set(ctx context.Context, key, value string) error {
	if b.broken {
		return errKVDown
	}
	return b.inner.Set(ctx, key, value)
}

func (b *brokenKV) Delete(ctx context.Context, key string) error {
	if b.broken {
		return errKVDown
	}
	return b.inner.Delete(ctx, key)
}

func (b *brokenKV) Close() error { return nil }

func TestFailoverKV(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("ServesFromPrimary", func(t *testing.T) {
		primary := &brokenKV{inner: NewMemoryKV()}
		fallback := NewMemoryKV()
		kv := NewFailoverKV(primary, fallback, &logger)

		require.NoError(t, kv.Set(ctx, "k", "v"))

		val, ok, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v", val)
	})

	t.Run("MirrorsWritesToFallback", func(t *testing.T) {
		primary := &brokenKV{inner: NewMemoryKV()}
		fallback := NewMemoryKV()
		kv := NewFailoverKV(primary, fallback, &logger)

		require.NoError(t, kv.Set(ctx, "k", "v"))

		val, ok, err := fallback.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v", val)
	})

	t.Run("FallsBackWhenPrimaryDies", func(t *testing.T) {
		primary := &brokenKV{inner: NewMemoryKV()}
		fallback := NewMemoryKV()
		kv := NewFailoverKV(primary, fallback, &logger)

		require.NoError(t, kv.Set(ctx, "k", "v"))
		primary.broken = true

		// The read that notices the failure already serves the fallback,
		// which holds the mirrored value.
		val, ok, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v", val)

		// Subsequent writes go straight to the fallback.
		require.NoError(t, kv.Set(ctx, "k", "v2"))
		val, _, _ = fallback.Get(ctx, "k")
		assert.Equal(t, "v2", val)
	})

	t.Run("DeleteFallsBack", func(t *testing.T) {
		primary := &brokenKV{inner: NewMemoryKV(), broken: true}
		fallback := NewMemoryKV()
		require.NoError(t, fallback.Set(ctx, "k", "v"))

		kv := NewFailoverKV(primary, fallback, &logger)
		require.NoError(t, kv.Delete(ctx, "k"))

		_, ok, _ := fallback.Get(ctx, "k")
		assert.False(t, ok)
	})
}
