// Package cache stores simulated networks and rendered artifacts.
//
// Simulating a pattern is the expensive step of every request, so the
// pipeline caches the relaxed segment set per recipe and each rendered
// artifact per format. Three backends implement [Cache]:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry under the XDG cache directory
//   - [RedisCache]: a shared redis instance for the HTTP server
//
// Keys come from a [Keyer] so that callers can scope them, for example per
// server instance with [NewScopedKeyer].
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTLs for cached entries.
const (
	TTLNetwork  = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with expiration.
type Cache interface {
	// Get returns the value for key. A miss is reported as ok == false with a
	// nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// NullCache stores nothing. Every Get misses.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }

// =============================================================================
// Keys
// =============================================================================

// Keyer derives cache keys.
type Keyer interface {
	// NetworkKey identifies a simulated segment set.
	NetworkKey(recipeHash string) string
	// ArtifactKey identifies one rendering of a segment set.
	ArtifactKey(networkHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale"`
	Stroke   float64 `json:"stroke"`
	Margin   float64 `json:"margin"`
	Bodies   bool    `json:"bodies"`
	Detailed bool    `json:"detailed"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// NetworkKey implements [Keyer].
func (DefaultKeyer) NetworkKey(recipeHash string) string {
	return "network:" + Hash([]byte(recipeHash))
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(networkHash string, opts ArtifactKeyOpts) string {
	data, _ := json.Marshal(opts)
	return "artifact:" + Hash(append([]byte(networkHash+"|"), data...))
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
