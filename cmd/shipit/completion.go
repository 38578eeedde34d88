package main

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for shipit.

To load completions:

Bash:
  $ source <(shipit completion bash)
  # To load completions for each session, add to ~/.bashrc:
  # source <(shipit completion bash)

Zsh:
  $ source <(shipit completion zsh)
  # To load completions for each session, add to ~/.zshrc:
  # source <(shipit completion zsh)
  # You may need to start a new shell for this to take effect.

Fish:
  $ shipit completion fish | source
  # To load completions for each session, run:
  $ shipit completion fish > ~/.config/fish/completions/shipit.fish

PowerShell:
  PS> shipit completion powershell | Out-String | Invoke-Expression
  # To load completions for each session, add the output to your profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
