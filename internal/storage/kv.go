// Package storage provides the local key-value persistence behind the
// token stores: a sqlite file by default, redis when configured, memory
// for tests and as a failover fallback.
package storage

import (
	"context"
	"sync"
)

// KV is a string key-value store. Get reports presence separately from
// errors so an absent key is not a failure.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// MemoryKV is an in-process KV used in tests and as the failover fallback.
type MemoryKV struct {
	values sync.Map
}

// NewMemoryKV constructs an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	val, ok := m.values.Load(key)
	if !ok {
		return "", false, nil
	}
	return val.(string), true, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.values.Store(key, value)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.values.Delete(key)
	return nil
}

func (m *MemoryKV) Close() error { return nil }
