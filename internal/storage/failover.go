package storage

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const recoveryProbeInterval = time.Minute

// FailoverKV serves from a primary store, switching to a fallback when the
// primary errors and probing the primary again after a cooldown.
type FailoverKV struct {
	primary   KV
	fallback  KV
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed probe
}

// NewFailoverKV pairs a primary store with a fallback.
func NewFailoverKV(primary, fallback KV, logger *zerolog.Logger) *FailoverKV {
	return &FailoverKV{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverKV) markDown(err error) {
	f.logger.Error().Err(err).Msg("primary kv store failed, falling back")
	f.isDown.Store(true)
	f.lastCheck.Store(time.Now().UnixNano())
}

func (f *FailoverKV) shouldProbe() bool {
	return time.Since(time.Unix(0, f.lastCheck.Load())) > recoveryProbeInterval
}

func (f *FailoverKV) Get(ctx context.Context, key string) (string, bool, error) {
	if !f.isDown.Load() {
		val, ok, err := f.primary.Get(ctx, key)
		if err == nil {
			return val, ok, nil
		}
		f.markDown(err)
	} else if f.shouldProbe() {
		val, ok, err := f.primary.Get(ctx, key)
		if err == nil {
			f.isDown.Store(false)
			return val, ok, nil
		}
		f.lastCheck.Store(time.Now().UnixNano())
	}

	return f.fallback.Get(ctx, key)
}

func (f *FailoverKV) Set(ctx context.Context, key, value string) error {
	if !f.isDown.Load() {
		err := f.primary.Set(ctx, key, value)
		if err == nil {
			// Mirror into the fallback so a later failover still sees
			// the current value.
			_ = f.fallback.Set(ctx, key, value)
			return nil
		}
		f.markDown(err)
	}

	return f.fallback.Set(ctx, key, value)
}

func (f *FailoverKV) Delete(ctx context.Context, key string) error {
	if !f.isDown.Load() {
		err := f.primary.Delete(ctx, key)
		if err == nil {
			_ = f.fallback.Delete(ctx, key)
			return nil
		}
		f.markDown(err)
	}

	return f.fallback.Delete(ctx, key)
}

func (f *FailoverKV) Close() error {
	err := f.primary.Close()
	if ferr := f.fallback.Close(); err == nil {
		err = ferr
	}
	return err
}
