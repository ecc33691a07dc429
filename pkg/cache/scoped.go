package cache

// ScopedKeyer wraps a Keyer with a prefix. The API server scopes keys by
// deployment so several instances can share one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "cellgrid:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key. A nil
// inner keyer means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}

// HintsKey generates a prefixed hints key.
func (k *ScopedKeyer) HintsKey(docHash string, opts HintsKeyOpts) string {
	return k.prefix + k.inner.HintsKey(docHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
