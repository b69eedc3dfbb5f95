package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	TTL     time.Duration

	// File backend. Empty uses DefaultDir.
	Dir string

	Redis RedisOptions
	Mongo MongoOptions
}

// Open returns the backend named by opts.Backend. The empty name selects the
// file backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, opts.Mongo)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

// Named is implemented by caches that report their backend name.
type Named interface {
	Name() string
}

// BackendName returns the backend name of c, or "custom".
func BackendName(c Cache) string {
	if n, ok := c.(Named); ok {
		return n.Name()
	}
	return "custom"
}

// Clearer is implemented by caches that can drop all entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear drops every entry of c. NullCache has nothing to clear.
func Clear(ctx context.Context, c Cache) error {
	if cl, ok := c.(Clearer); ok {
		return cl.Clear(ctx)
	}
	if _, ok := c.(NullCache); ok {
		return nil
	}
	return fmt.Errorf("cache backend %s cannot be cleared", BackendName(c))
}
