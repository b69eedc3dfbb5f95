// Package cache stores computed layouts so repeated renders of the same chart
// skip measurement and relaxation.
//
// # Backends
//
//   - [FileCache] keeps entries as JSON files for CLI usage.
//   - [RedisCache] shares entries between service replicas.
//   - [MongoCache] persists entries in a MongoDB collection with a TTL index.
//   - [NullCache] disables caching.
//
// [Open] selects a backend from [Options], as loaded from the configuration
// file.
//
// # Keys
//
// A [Keyer] derives cache keys from a request hash and the settings that
// influence the result. Keys hash their inputs, so they are safe to use as
// file names and Redis keys. [ScopedKeyer] prefixes keys for multi-tenant
// isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// A missing or expired key is reported as a miss, not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout computed from a request with
	// the given content hash.
	LayoutKey(requestHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts holds everything besides the request itself that changes a
// layout result.
type LayoutKeyOpts struct {
	// Kind is the layout kind: "chart", "axis", "legend" or "radial".
	Kind string `json:"kind"`

	// Engine is the engine version; results are not shared across versions.
	Engine string `json:"engine"`

	// FontSet fingerprints the registered font families.
	FontSet string `json:"font_set,omitempty"`

	// Settings hashes the configured engine defaults.
	Settings string `json:"settings,omitempty"`
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return hashKey("layout:"+opts.Kind, requestHash, opts)
}
