// Package pipeline turns chart documents into rendered artifacts.
//
// It is the single path shared by the CLI and the HTTP server: apply
// defaults, build and lay out a [bargroup.Engine], render every requested
// format and cache the results.
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bargroup/pkg/bargroup"
	"github.com/matzehuels/bargroup/pkg/cache"
	"github.com/matzehuels/bargroup/pkg/colors"
	"github.com/matzehuels/bargroup/pkg/errors"
	chartio "github.com/matzehuels/bargroup/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default canvas width in layout units.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in layout units.
	DefaultHeight = 400.0

	// DefaultScale is the default output scale factor.
	DefaultScale = 1.0

	// MaxDimension caps each side of the output (width or height times
	// scale). Raster and terminal sinks allocate per output unit.
	MaxDimension = 16384.0

	// MaxPixels caps the output area, Width*Scale times Height*Scale.
	MaxPixels = 40_000_000.0
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
	FormatTerminal = "term"
)

// Formats lists the supported output formats in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatTerminal}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. Zero values are filled from the chart
// document first and from the package defaults second.
type Options struct {
	Width      float64  `json:"width,omitempty"`
	Height     float64  `json:"height,omitempty"`
	BarWidth   float64  `json:"bar_width,omitempty"`
	Placement  string   `json:"placement,omitempty"`
	Fallback   string   `json:"fallback,omitempty"` // color for rows beyond the palette
	Title      string   `json:"title,omitempty"`
	Background string   `json:"background,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Formats    []string `json:"formats,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"` // skip cache lookups

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DocHash is the content hash of the chart document.
	DocHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains layout and timing information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows          int
	Columns       int
	Bars          int
	Scale         float64
	ScaleFallback bool
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for a run.
type CacheInfo struct {
	Hits      []string // formats served from cache
	RenderHit bool     // every artifact came from cache; no layout ran
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, Formats)
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ApplyDocument fills zero-valued options from the document's settings.
func (o *Options) ApplyDocument(doc *chartio.Document) {
	if doc == nil {
		return
	}
	if o.Width == 0 {
		o.Width = doc.Width
	}
	if o.Height == 0 {
		o.Height = doc.Height
	}
	if o.BarWidth == 0 {
		o.BarWidth = doc.BarWidth
	}
	if o.Placement == "" {
		o.Placement = doc.Placement
	}
	if o.Title == "" {
		o.Title = doc.Title
	}
}

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.BarWidth == 0 {
		o.BarWidth = bargroup.DefaultBarWidth
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	for name, v := range map[string]float64{"width": o.Width, "height": o.Height, "bar width": o.BarWidth, "scale": o.Scale} {
		if err := errors.ValidateSize(name, v); err != nil {
			return err
		}
	}
	if err := o.validateOutputSize(); err != nil {
		return err
	}
	if _, err := bargroup.ParsePlacement(o.Placement); err != nil {
		return err
	}
	if _, err := o.fallbackColor(); err != nil {
		return err
	}
	if _, err := o.backgroundColor(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// validateOutputSize rejects outputs whose scaled extent exceeds
// [MaxDimension] on either side or [MaxPixels] in area.
func (o *Options) validateOutputSize() error {
	w, h := o.Width*o.Scale, o.Height*o.Scale
	if w > MaxDimension || h > MaxDimension {
		return errors.New(errors.ErrCodeInvalidSize,
			"output %gx%g exceeds %g per side (width and height times scale)", w, h, MaxDimension)
	}
	if w*h > MaxPixels {
		return errors.New(errors.ErrCodeInvalidSize,
			"output %gx%g exceeds %g units of area", w, h, MaxPixels)
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Width:      o.Width,
		Height:     o.Height,
		BarWidth:   o.BarWidth,
		Placement:  o.Placement,
		Fallback:   o.Fallback,
		Title:      o.Title,
		Background: o.Background,
		Scale:      o.Scale,
	}
}

func (o *Options) fallbackColor() (color.Color, error) {
	return optionalColor(o.Fallback)
}

func (o *Options) backgroundColor() (color.Color, error) {
	return optionalColor(o.Background)
}

func optionalColor(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}
	c, err := colors.Parse(s)
	if err != nil {
		return nil, err
	}
	return c, nil
}
