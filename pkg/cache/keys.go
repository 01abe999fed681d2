package cache

// Keyer derives cache keys. All components share one Keyer so that the CLI,
// the pipeline and the server agree on key layout.
type Keyer interface {
	// LayoutKey keys a computed layout by the hash of its document.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the hash of its layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the settings that change a layout beyond its document.
type LayoutKeyOpts struct {
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	AutoResize bool    `json:"auto_resize,omitempty"`
}

// ArtifactKeyOpts are the settings that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style,omitempty"`
	Labels bool    `json:"labels,omitempty"`
	Margin float64 `json:"margin,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
