package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bargroup/pkg/cache"
	"github.com/matzehuels/bargroup/pkg/errors"
	chartio "github.com/matzehuels/bargroup/pkg/io"
	"github.com/matzehuels/bargroup/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different documents; each run builds its own engine.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute lays out doc and renders every requested format.
//
// Formats already cached for the same document and options are served from
// the cache; if all of them are, no engine is built at all.
func (r *Runner) Execute(ctx context.Context, doc *chartio.Document, opts Options) (*Result, error) {
	if doc == nil || doc.Table == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no data")
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.ApplyDocument(doc)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	docHash, err := HashDocument(doc)
	if err != nil {
		return nil, err
	}
	result := &Result{
		DocHash:   docHash,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}

	missing := r.lookup(ctx, docHash, opts, result)
	if len(missing) == 0 {
		result.CacheInfo.RenderHit = true
		r.Logger.Info("served from cache", "formats", opts.Formats)
		return result, nil
	}

	// Layout
	layoutStart := time.Now()
	e, err := NewEngine(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	stats := e.LastLayout()
	result.Stats = Stats{
		Rows:          doc.Table.Rows(),
		Columns:       doc.Table.Columns(),
		Bars:          stats.Bars,
		Scale:         stats.Scale,
		ScaleFallback: stats.ScaleFallback,
		LayoutTime:    time.Since(layoutStart),
	}
	if stats.ScaleFallback {
		r.Logger.Warn("series maximum is not positive, bars collapsed to the baseline", "max", e.Max())
	}
	r.Logger.Info("computed layout",
		"bars", stats.Bars,
		"scale", stats.Scale,
		"duration", result.Stats.LayoutTime)

	// Render
	renderStart := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	for _, format := range missing {
		data, err := Render(e, format, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, missing, time.Since(renderStart), err)
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
		r.store(ctx, docHash, format, data, opts)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, missing, result.Stats.RenderTime, nil)

	r.Logger.Info("rendered outputs",
		"formats", missing,
		"cached", result.CacheInfo.Hits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// lookup fills result with cached artifacts and returns the formats that
// still need rendering.
func (r *Runner) lookup(ctx context.Context, docHash string, opts Options, result *Result) []string {
	if opts.Refresh {
		return opts.Formats
	}
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache lookup failed", "format", format, "err", err)
		}
		if err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			result.Artifacts[format] = data
			result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	return missing
}

func (r *Runner) store(ctx context.Context, docHash, format string, data []byte, opts Options) {
	key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache store failed", "format", format, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// HashDocument returns the content hash of doc's canonical TOML encoding.
func HashDocument(doc *chartio.Document) (string, error) {
	var buf bytes.Buffer
	if err := chartio.WriteTOML(doc, &buf); err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}
