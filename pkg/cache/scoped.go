package cache

// scopedKeyer prefixes every key produced by an inner Keyer.
type scopedKeyer struct {
	Keyer
	scope string
}

// NewScopedKeyer returns a Keyer that places every key of inner under scope,
// so that deployments sharing one Redis keep separate entries. A nil inner
// means the default keyer.
//
//	keyer := NewScopedKeyer(nil, "staging:")
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return scopedKeyer{Keyer: inner, scope: scope}
}

func (k scopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.scope + k.Keyer.LayoutKey(docHash, opts)
}

func (k scopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.scope + k.Keyer.ArtifactKey(layoutHash, opts)
}
