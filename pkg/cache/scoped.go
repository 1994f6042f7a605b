package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. Servers sharing one
// Redis database use it to keep their entries apart.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "bargroup:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}
