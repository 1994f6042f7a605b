package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bargroup/internal/server"
	"github.com/matzehuels/bargroup/pkg/observability"
)

const defaultAddr = "127.0.0.1:8080"

type serveOpts struct {
	addr    string
	cache   string
	noCache bool
	maxBody int64
	timeout time.Duration
}

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	o := serveOpts{
		addr:    defaultAddr,
		maxBody: server.DefaultMaxBodySize,
		timeout: server.DefaultRenderTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart renders over HTTP",
		Long: `Serve starts an HTTP server rendering charts posted as TOML or CSV.

  curl --data-binary @sales.toml 'http://127.0.0.1:8080/render?format=png'
  curl -H 'Content-Type: text/csv' --data-binary @sales.csv http://127.0.0.1:8080/render`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), o)
		},
	}

	cmd.Flags().StringVar(&o.addr, "addr", o.addr, "listen address")
	cmd.Flags().Int64Var(&o.maxBody, "max-body", o.maxBody, "maximum request body size in bytes")
	cmd.Flags().DurationVar(&o.timeout, "timeout", o.timeout, "per-request render timeout")
	addCacheFlags(cmd, &o.cache, &o.noCache)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, o serveOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, o.cache, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if logger.GetLevel() <= log.DebugLevel {
		hooks := observability.NewLogHooks(logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
		defer observability.Reset()
	}

	printInfo("Listening on %s", StyleHighlight.Render("http://"+o.addr))
	printKeyValue("cache", cacheLabel(o.cache, o.noCache))
	printKeyValue("max body", byteSize(o.maxBody))

	srv := server.New(runner, logger,
		server.WithMaxBodySize(o.maxBody),
		server.WithTimeout(o.timeout))
	return srv.ListenAndServe(ctx, o.addr)
}

func cacheLabel(target string, noCache bool) string {
	switch {
	case noCache || target == "none":
		return "disabled"
	case target != "":
		return target
	}
	if dir, err := cacheDir(); err == nil {
		return dir
	}
	return "disabled"
}

// byteSize formats n with a binary unit, e.g. "1.0 MiB".
func byteSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
