package cache

// Keyer derives cache keys. Implementations must be deterministic: equal
// inputs always give equal keys.
type Keyer interface {
	// ArtifactKey identifies one rendered output of a chart document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every setting that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	BarWidth   float64 `json:"bar_width"`
	Placement  string  `json:"placement"`
	Fallback   string  `json:"fallback,omitempty"`
	Title      string  `json:"title,omitempty"`
	Background string  `json:"background,omitempty"`
	Scale      float64 `json:"scale"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256>" over the document hash and opts.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
