// Package cache provides caching for rendered scene artifacts.
//
// Rendering a scene to SVG goes through Graphviz and is the most expensive
// operation in the system, so the server and CLI cache artifacts keyed by
// the content hash of the scene document plus the render options. The
// package provides:
//
//   - Cache: the storage interface (file-based and null implementations)
//   - Keyer: deterministic cache key construction
//   - Hash: SHA-256 content hashing of serialized scenes
//
// Keys incorporate everything that influences the output, so a changed
// scene or changed options can never serve a stale artifact.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for artifact storage backends.
type Cache interface {
	// Get retrieves a value. The second result reports whether the key
	// was present; absence is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A zero TTL means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts captures the render options that shape an artifact.
type ArtifactKeyOpts struct {
	Format    string // "svg" or "dot"
	Detailed  bool
	ShowPorts bool
}

// Keyer constructs cache keys for the different cached value types.
type Keyer interface {
	// ArtifactKey generates a key for a rendered artifact, derived from
	// the scene content hash and the render options.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key construction.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey generates a key of the form "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts.Format, opts.Detailed, opts.ShowPorts)
}
