package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bargroup/pkg/errors"
	chartio "github.com/matzehuels/bargroup/pkg/io"
)

const defaultChartFile = "chart.toml"

// initCommand creates the command that writes an example chart.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write an example chart file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultChartFile
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			}
			if err := chartio.ExportTOML(chartio.Example(), path); err != nil {
				return err
			}

			printSuccess("Wrote %s", path)
			printNextStep("Render it", fmt.Sprintf("%s render %s", appName, path))
			printNextStep("Preview it", fmt.Sprintf("%s preview %s", appName, path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
