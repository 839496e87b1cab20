package cache

// ScopedKeyer wraps a Keyer with a prefix. The CLI and server scope keys by
// release so results cached by another version are never reused.
//
// Example usage:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "v1.4.0:")
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

// ArrangementKey generates a prefixed arrangement key.
func (k *ScopedKeyer) ArrangementKey(templateID string, opts ArrangementKeyOpts) string {
	return k.prefix + k.inner.ArrangementKey(templateID, opts)
}

// SuggestionKey generates a prefixed suggestion key.
func (k *ScopedKeyer) SuggestionKey(opts SuggestionKeyOpts) string {
	return k.prefix + k.inner.SuggestionKey(opts)
}
