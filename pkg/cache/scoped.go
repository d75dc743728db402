package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants can share one
// cache backend.
//
// Example usage:
//
//	// One namespace per inventory deployment
//	k := NewScopedKeyer(NewDefaultKeyer(), "inventory.example.edu:")
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(recordsHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(recordsHash, opts)
}
