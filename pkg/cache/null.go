package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Every Get is a miss, so layouts are always
// recomputed. It backs `backend = "none"` and the --no-cache flag.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete is a no-op.
func (NullCache) Delete(context.Context, string) error { return nil }

// Close is a no-op.
func (NullCache) Close() error { return nil }

// Name implements [Named].
func (NullCache) Name() string { return BackendNone }

var _ Cache = NullCache{}
