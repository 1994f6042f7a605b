package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/bargroup/pkg/cache"
	"github.com/matzehuels/bargroup/pkg/errors"
	chartio "github.com/matzehuels/bargroup/pkg/io"
	"github.com/matzehuels/bargroup/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"term", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want %vx%v", o.Width, o.Height, DefaultWidth, DefaultHeight)
	}
	if o.BarWidth != 10 || o.Scale != 1 {
		t.Errorf("BarWidth, Scale = %v, %v, want 10, 1", o.BarWidth, o.Scale)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
	}{
		{"negative width", Options{Width: -1}, errors.ErrCodeInvalidSize},
		{"negative scale", Options{Scale: -2}, errors.ErrCodeInvalidSize},
		{"width over limit", Options{Width: MaxDimension + 1}, errors.ErrCodeInvalidSize},
		{"scaled height over limit", Options{Height: 5000, Scale: 4}, errors.ErrCodeInvalidSize},
		{"area over limit", Options{Width: 10000, Height: 10000}, errors.ErrCodeInvalidSize},
		{"huge scaled output", Options{Width: 60000, Height: 60000, Scale: 4}, errors.ErrCodeInvalidSize},
		{"bad placement", Options{Placement: "left"}, errors.ErrCodeInvalidInput},
		{"bad fallback", Options{Fallback: "nope"}, errors.ErrCodeInvalidColor},
		{"bad background", Options{Background: "#12"}, errors.ErrCodeInvalidColor},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("GetCode() = %v, want %v (err = %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestValidateAndSetDefaultsAtLimit(t *testing.T) {
	o := Options{Width: MaxDimension, Height: 2000}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Errorf("ValidateAndSetDefaults() error = %v, want nil at the limit", err)
	}
}

func TestApplyDocument(t *testing.T) {
	doc := chartio.Example()

	o := Options{Width: 300}
	o.ApplyDocument(doc)
	if o.Width != 300 {
		t.Errorf("Width = %v, explicit option should win", o.Width)
	}
	if o.Height != doc.Height || o.BarWidth != doc.BarWidth || o.Title != doc.Title {
		t.Errorf("options = %+v, want document settings filled in", o)
	}

	o.ApplyDocument(nil) // no-op
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), chartio.Example(), Options{
		Formats: []string{FormatSVG, FormatJSON, FormatPNG},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	for _, f := range []string{FormatSVG, FormatJSON, FormatPNG} {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("Artifacts[%q] is empty", f)
		}
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), "<title>Regional sales</title>") {
		t.Error("SVG should carry the document title")
	}
	if result.Stats.Bars != 6 || result.Stats.Rows != 2 || result.Stats.Columns != 3 {
		t.Errorf("Stats = %+v, want 6 bars in 2x3", result.Stats)
	}
	if result.Stats.Scale != 6 {
		t.Errorf("Stats.Scale = %v, want 6 (60 / max 10)", result.Stats.Scale)
	}
	if result.CacheInfo.RenderHit {
		t.Error("NullCache run should not report a cache hit")
	}

	var layout struct {
		Width float64 `json:"width"`
		Bars  []struct {
			Height float64 `json:"height"`
		} `json:"bars"`
	}
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &layout); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if layout.Width != 120 || len(layout.Bars) != 6 {
		t.Errorf("json layout width %v with %d bars, want 120 with 6", layout.Width, len(layout.Bars))
	}
}

func TestExecuteCaching(t *testing.T) {
	defer observability.Reset()
	counter := &countingHooks{}
	observability.SetPipelineHooks(counter)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := runner.Execute(ctx, chartio.Example(), opts)
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	second, err := runner.Execute(ctx, chartio.Example(), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.RenderHit || len(second.CacheInfo.Hits) != 2 {
		t.Errorf("second run CacheInfo = %+v, want full hit", second.CacheInfo)
	}
	if string(second.Artifacts[FormatSVG]) != string(first.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs from rendered SVG")
	}
	if got := counter.layouts(); got != 1 {
		t.Errorf("layouts = %d, want 1 (second run served from cache)", got)
	}

	// A changed option misses.
	opts.BarWidth = 4
	third, err := runner.Execute(ctx, chartio.Example(), opts)
	if err != nil {
		t.Fatalf("third Execute() error: %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("changed bar width should miss the cache")
	}

	// Refresh skips lookups.
	opts.Refresh = true
	fourth, err := runner.Execute(ctx, chartio.Example(), opts)
	if err != nil {
		t.Fatalf("fourth Execute() error: %v", err)
	}
	if fourth.CacheInfo.RenderHit || len(fourth.CacheInfo.Hits) != 0 {
		t.Errorf("refresh run CacheInfo = %+v, want no hits", fourth.CacheInfo)
	}
}

func TestExecutePaletteUnderflow(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	doc := chartio.Example()
	doc.Colors = []string{"red"}

	_, err := runner.Execute(ctx, doc, Options{})
	if !errors.Is(err, errors.ErrCodePaletteUnderflow) {
		t.Fatalf("Execute() error = %v, want PALETTE_UNDERFLOW", err)
	}

	result, err := runner.Execute(ctx, doc, Options{Fallback: "gray", Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() with fallback error: %v", err)
	}
	if !strings.Contains(string(result.Artifacts[FormatJSON]), `"color": "#808080"`) {
		t.Error("row beyond the palette should use the fallback color")
	}
}

func TestExecuteZeroMax(t *testing.T) {
	doc := chartio.Example()
	for r := range doc.Table.Rows() {
		for c := range doc.Table.Columns() {
			_ = doc.Table.Set(r, c, 0)
		}
	}
	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !result.Stats.ScaleFallback || result.Stats.Scale != 0 {
		t.Errorf("Stats = %+v, want scale fallback", result.Stats)
	}
}

func TestExecuteNilDocument(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), nil, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute(nil) error = %v, want INVALID_INPUT", err)
	}
}

func TestHashDocument(t *testing.T) {
	a, err := HashDocument(chartio.Example())
	if err != nil {
		t.Fatalf("HashDocument() error: %v", err)
	}
	b, _ := HashDocument(chartio.Example())
	if a != b {
		t.Error("HashDocument should be deterministic")
	}

	doc := chartio.Example()
	_ = doc.Table.Set(0, 0, 7)
	c, _ := HashDocument(doc)
	if a == c {
		t.Error("changed values should change the hash")
	}
}

func TestContentTypeAndExtension(t *testing.T) {
	tests := []struct {
		format, contentType, ext string
	}{
		{FormatSVG, "image/svg+xml", "svg"},
		{FormatPNG, "image/png", "png"},
		{FormatPDF, "application/pdf", "pdf"},
		{FormatJSON, "application/json", "json"},
		{FormatTerminal, "text/plain; charset=utf-8", "txt"},
	}
	for _, tt := range tests {
		if got := ContentType(tt.format); got != tt.contentType {
			t.Errorf("ContentType(%q) = %q, want %q", tt.format, got, tt.contentType)
		}
		if got := Extension(tt.format); got != tt.ext {
			t.Errorf("Extension(%q) = %q, want %q", tt.format, got, tt.ext)
		}
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	mu sync.Mutex
	n  int
}

func (h *countingHooks) OnLayoutStart(context.Context, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.n++
}

func (h *countingHooks) layouts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.n
}
