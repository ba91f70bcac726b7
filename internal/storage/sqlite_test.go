package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kv.db")
	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()

	t.Run("GetAbsent", func(t *testing.T) {
		_, ok, err := kv.Get(ctx, "account_token")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "account_token", "abc"))

		val, ok, err := kv.Get(ctx, "account_token")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abc", val)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "account_token", "def"))

		val, ok, err := kv.Get(ctx, "account_token")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "def", val)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, kv.Delete(ctx, "account_token"))

		_, ok, err := kv.Get(ctx, "account_token")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DeleteAbsentIsNoop", func(t *testing.T) {
		assert.NoError(t, kv.Delete(ctx, "never_set"))
	})
}

func TestSQLiteKVSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "push_token", "deadbeef"))
	require.NoError(t, kv.Close())

	reopened, err := NewSQLiteKV(path)
	require.NoError(t, err)
	defer reopened.Close()

	val, ok, err := reopened.Get(ctx, "push_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "deadbeef", val)
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", "v"))
	val, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", val)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, ok, _ = kv.Get(ctx, "k")
	assert.False(t, ok)
}
