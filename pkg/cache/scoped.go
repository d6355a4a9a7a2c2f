package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The server uses it to scope artifact keys by scene store backend, so
// processes pointed at different stores can share one cache directory
// without serving each other's artifacts.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "redis:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
