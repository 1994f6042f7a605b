package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bargroup/pkg/buildinfo"
	"github.com/matzehuels/bargroup/pkg/cache"
	"github.com/matzehuels/bargroup/pkg/pipeline"
)

// appName names the binary and its cache directory.
const appName = "bargroup"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Bargroup lays out and renders grouped bar charts",
		Long: `Bargroup turns a table of values into a grouped bar chart: one group per
column, one colored bar per row. Charts are read from TOML or CSV and rendered
to SVG, PNG, PDF, JSON or straight to the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the cache named by target.
func (c *CLI) newRunner(ctx context.Context, target string, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, target, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache picks a cache implementation:
//
//	noCache or "none"      NullCache
//	redis:// or rediss://  RedisCache
//	any other path         FileCache rooted there
//	""                     FileCache under cacheDir
func newCache(ctx context.Context, target string, noCache bool) (cache.Cache, error) {
	switch {
	case noCache || target == "none":
		return cache.NewNullCache(), nil
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		return cache.NewRedisCache(ctx, target)
	case target != "":
		return cache.NewFileCache(target)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the render cache directory (~/.cache/bargroup unless
// XDG_CACHE_HOME is set).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats splits a comma-separated format list, defaulting to svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}
