package tokenstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurante/internal/models"
	"restaurante/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	logger := zerolog.Nop()
	s := New(models.AccountTokenKey, kv, &logger)
	t.Cleanup(s.Close)
	return s, kv
}

// waitForPublish blocks until the store delivers its next value, or fails
// the test after a timeout.
func waitForPublish(t *testing.T, s *Store) *string {
	t.Helper()
	ch := make(chan *string, 1)
	var once sync.Once
	cancel := s.Subscribe(func(v *string) {
		once.Do(func() { ch <- v })
	})
	defer cancel()

	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("store never published")
		return nil
	}
}

func TestStoreInitialLoadPublishesNil(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Nil(t, waitForPublish(t, s))
}

func TestStoreInitialLoadPublishesPersistedValue(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), models.AccountTokenKey, "persisted"))

	logger := zerolog.Nop()
	s := New(models.AccountTokenKey, kv, &logger)
	defer s.Close()

	got := waitForPublish(t, s)
	require.NotNil(t, got)
	assert.Equal(t, "persisted", *got)
}

func TestStoreSetReplaysToFreshSubscriber(t *testing.T) {
	s, kv := newTestStore(t)

	s.Set("secret")
	require.Eventually(t, func() bool {
		v := s.Current()
		return v != nil && *v == "secret"
	}, 2*time.Second, 10*time.Millisecond)

	// A fresh subscription immediately receives the latest value.
	got := waitForPublish(t, s)
	require.NotNil(t, got)
	assert.Equal(t, "secret", *got)

	// And the value actually persisted.
	val, ok, err := kv.Get(context.Background(), models.AccountTokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "secret", val)
}

func TestStoreRemovePublishesNil(t *testing.T) {
	s, kv := newTestStore(t)

	s.Set("secret")
	s.Remove()

	require.Eventually(t, func() bool {
		return s.Current() == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Nil(t, waitForPublish(t, s))

	_, ok, err := kv.Get(context.Background(), models.AccountTokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreWritesObservedInOrder(t *testing.T) {
	s, _ := newTestStore(t)

	var mu sync.Mutex
	var seen []string
	s.Subscribe(func(v *string) {
		mu.Lock()
		defer mu.Unlock()
		if v == nil {
			seen = append(seen, "<nil>")
		} else {
			seen = append(seen, *v)
		}
	})

	s.Set("a")
	s.Set("b")
	s.Remove()
	s.Set("c")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 5
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	// First the initial load (nil), then each mutation exactly once.
	assert.Equal(t, []string{"<nil>", "a", "b", "<nil>", "c"}, seen)
}

func TestFormatPushToken(t *testing.T) {
	assert.Equal(t, "00ff10ab", FormatPushToken([]byte{0x00, 0xFF, 0x10, 0xAB}))
	assert.Equal(t, "", FormatPushToken(nil))
}
