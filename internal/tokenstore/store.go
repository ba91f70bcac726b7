// Package tokenstore persists single opaque credential strings (the
// account token and the push token) and exposes each as a replay-latest
// observable. All mutations on a store are serialized through one writer
// goroutine so concurrent callers can never interleave read/write pairs
// on the same key.
package tokenstore

import (
	"context"
	"time"

	"restaurante/internal/events"
	"restaurante/internal/storage"

	"github.com/rs/zerolog"
)

const opTimeout = 5 * time.Second

// Store holds one persisted string value under a fixed key. A nil
// published value means "no token".
type Store struct {
	key    string
	kv     storage.KV
	logger zerolog.Logger

	value *events.Value[*string]
	ops   chan func(context.Context)
	done  chan struct{}
}

// New opens a store for key on top of kv and enqueues an initial load so
// subscribers immediately receive the last-persisted value (or nil).
func New(key string, kv storage.KV, logger *zerolog.Logger) *Store {
	s := &Store{
		key:    key,
		kv:     kv,
		logger: logger.With().Str("component", "tokenstore").Str("key", key).Logger(),
		value:  events.NewValue[*string](),
		ops:    make(chan func(context.Context), 16),
		done:   make(chan struct{}),
	}
	go s.run()
	s.Load()
	return s
}

func (s *Store) run() {
	defer close(s.done)
	for op := range s.ops {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		op(ctx)
		cancel()
	}
}

// Set persists v and publishes it to subscribers.
func (s *Store) Set(v string) {
	s.ops <- func(ctx context.Context) {
		if err := s.kv.Set(ctx, s.key, v); err != nil {
			s.logger.Error().Err(err).Msg("persist token")
			return
		}
		val := v
		s.value.Publish(&val)
	}
}

// Load re-reads the persisted value and (re)publishes it.
func (s *Store) Load() {
	s.ops <- func(ctx context.Context) {
		v, ok, err := s.kv.Get(ctx, s.key)
		if err != nil {
			s.logger.Error().Err(err).Msg("load token")
			return
		}
		if !ok {
			s.value.Publish(nil)
			return
		}
		s.value.Publish(&v)
	}
}

// Remove deletes the persisted value and publishes nil.
func (s *Store) Remove() {
	s.ops <- func(ctx context.Context) {
		if err := s.kv.Delete(ctx, s.key); err != nil {
			s.logger.Error().Err(err).Msg("remove token")
			return
		}
		s.value.Publish(nil)
	}
}

// Subscribe registers fn for token changes, replaying the latest value.
func (s *Store) Subscribe(fn func(*string)) (cancel func()) {
	return s.value.Subscribe(fn)
}

// Current returns the latest published token, or nil when logged out or
// before the initial load has completed.
func (s *Store) Current() *string {
	v, ok := s.value.Current()
	if !ok {
		return nil
	}
	return v
}

// Close drains pending operations and stops the writer goroutine. The
// underlying KV is shared between stores and is not closed here.
func (s *Store) Close() {
	close(s.ops)
	<-s.done
}
