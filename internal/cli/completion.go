package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the shell completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell and load it:

  bash        source <(bargroup completion bash)
  zsh         bargroup completion zsh > "${fpath[1]}/_bargroup"
  fish        bargroup completion fish > ~/.config/fish/completions/bargroup.fish
  powershell  bargroup completion powershell | Out-String | Invoke-Expression

Zsh needs "autoload -U compinit; compinit" in ~/.zshrc and a new shell.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
