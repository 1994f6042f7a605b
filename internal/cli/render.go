package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bargroup/pkg/cache"
	"github.com/matzehuels/bargroup/pkg/httputil"
	chartio "github.com/matzehuels/bargroup/pkg/io"
	"github.com/matzehuels/bargroup/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output  string
	cache   string
	noCache bool
	opts    pipeline.Options
}

// renderCommand creates the render command.
//
// Size and style flags left unset fall back to the chart file, then to the
// pipeline defaults.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		r          renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render <chart.toml|chart.csv|URL>",
		Short: "Render a chart to SVG, PNG, PDF, JSON or the terminal",
		Example: `  bargroup render sales.toml
  bargroup render sales.csv -f svg,png --width 1200 --height 600
  bargroup render sales.toml -f term --scale 0.1
  bargroup render https://example.com/exports/sales.csv -f png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r.opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(r.opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &r)
		},
	}

	cmd.Flags().StringVarP(&r.output, "output", "o", "", "output file (one format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated, default svg)")
	addChartFlags(cmd, &r.opts)
	cmd.Flags().BoolVar(&r.opts.Refresh, "refresh", false, "ignore cached artifacts and render again")
	addCacheFlags(cmd, &r.cache, &r.noCache)

	return cmd
}

// addChartFlags registers the layout and style flags shared by render and preview.
func addChartFlags(cmd *cobra.Command, o *pipeline.Options) {
	cmd.Flags().Float64Var(&o.Width, "width", 0, fmt.Sprintf("canvas width (default %v)", pipeline.DefaultWidth))
	cmd.Flags().Float64Var(&o.Height, "height", 0, fmt.Sprintf("canvas height (default %v)", pipeline.DefaultHeight))
	cmd.Flags().Float64Var(&o.BarWidth, "bar-width", 0, "width of each bar (default 10)")
	cmd.Flags().StringVar(&o.Placement, "placement", "", "group placement: legacy (default), centered")
	cmd.Flags().StringVar(&o.Fallback, "fallback", "", "color for rows beyond the palette instead of failing")
	cmd.Flags().StringVar(&o.Background, "background", "", "background color (default transparent)")
	cmd.Flags().StringVar(&o.Title, "title", "", "chart title")
	cmd.Flags().Float64Var(&o.Scale, "scale", 0, "output scale factor (default 1)")
}

func addCacheFlags(cmd *cobra.Command, target *string, noCache *bool) {
	cmd.Flags().StringVar(target, "cache", "", "cache location: directory, redis:// URL or none")
	cmd.Flags().BoolVar(noCache, "no-cache", false, "disable caching")
}

// runRender imports input, renders every requested format and writes the
// results. Terminal output goes to stdout; the rest goes to files.
func (c *CLI) runRender(ctx context.Context, input string, r *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	store, err := newCache(ctx, r.cache, r.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	doc, err := loadDocument(ctx, input, store)
	if err != nil {
		return err
	}
	logger.Debug("loaded chart", "rows", doc.Table.Rows(), "columns", doc.Table.Columns())

	opts := r.opts
	opts.Logger = logger
	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		return err
	}

	var written []string
	for _, format := range opts.Formats {
		data := result.Artifacts[format]
		if format == pipeline.FormatTerminal && r.output == "" {
			fmt.Println(string(data))
			continue
		}
		path := outputPath(r.output, localName(input), format, len(opts.Formats) > 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(opts.Formats)))

	if len(written) > 0 {
		printSuccess("Rendered %s", filepath.Base(localName(input)))
		for _, path := range written {
			printFile(path)
		}
		printStats(result.Stats, result.CacheInfo.RenderHit)
	}
	if result.Stats.ScaleFallback {
		printWarning("All values are zero or negative; bars sit on the baseline")
	}
	return nil
}

// loadDocument reads a chart from a local file or an http(s) URL. Remote
// bodies are cached in store.
func loadDocument(ctx context.Context, input string, store cache.Cache) (*chartio.Document, error) {
	if !httputil.IsURL(input) {
		return chartio.ImportFile(input)
	}
	f := httputil.NewFetcher(
		httputil.WithCache(store),
		httputil.WithLogger(loggerFromContext(ctx)))
	return chartio.ImportURL(ctx, f, input)
}

// localName maps a URL input to the file name outputs are derived from.
func localName(input string) string {
	if httputil.IsURL(input) {
		return chartio.URLName(input)
	}
	return input
}

// outputPath derives the file to write for one format.
//
// With a single format an explicit output is used as given. Otherwise the
// output (or the input, when no output is set) loses a known extension and
// gains the format's.
func outputPath(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	return basePath(output, input) + "." + pipeline.Extension(format)
}

// basePath strips the input's extension, or a known format extension from
// output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	for _, f := range pipeline.Formats {
		if ext == f || ext == pipeline.Extension(f) {
			return strings.TrimSuffix(output, "."+ext)
		}
	}
	return output
}
