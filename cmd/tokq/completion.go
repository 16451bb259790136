package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tokq/internal/catalog"
	"tokq/internal/formatter"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script",
	Long: `Generate shell completion script for tokq.

To load completions:

Bash:
  $ source <(tokq completion bash)

Zsh:
  $ tokq completion zsh > "${fpath[1]}/_tokq"

Fish:
  $ tokq completion fish | source

PowerShell:
  PS> tokq completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		var err error
		switch args[0] {
		case "bash":
			err = cmd.Root().GenBashCompletion(out)
		case "zsh":
			err = cmd.Root().GenZshCompletion(out)
		case "fish":
			err = cmd.Root().GenFishCompletion(out, true)
		case "powershell":
			err = cmd.Root().GenPowerShellCompletion(out)
		}
		if err != nil {
			return fmt.Errorf("failed to generate %s completion: %w", args[0], err)
		}
		return nil
	},
}

// filterPrefix returns the candidates starting with prefix.
func filterPrefix(candidates []string, prefix string) []string {
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			matches = append(matches, c)
		}
	}
	return matches
}

// fieldCompletion completes catalog field names. Only the last word of the
// expression typed so far is completed.
func fieldCompletion(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cat, err := loadCatalog(flags.CatalogPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	cut := strings.LastIndexAny(toComplete, wordSeparators) + 1
	head, word := toComplete[:cut], toComplete[cut:]

	var matches []string
	for _, name := range filterPrefix(cat.Names(), word) {
		matches = append(matches, head+name)
	}
	return matches, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// modeCompletion completes the check mode, then field names.
func modeCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return filterPrefix(checkModes, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
	return fieldCompletion(cmd, args, toComplete)
}

// formatCompletion provides completion for output format options.
func formatCompletion(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return filterPrefix(formatter.Formats, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// kindCompletion provides completion for field kinds.
func kindCompletion(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var kinds []string
	for _, k := range catalog.Kinds() {
		kinds = append(kinds, k.String())
	}
	return filterPrefix(kinds, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// setupRootCommandCompletion configures completion for the root command and
// the commands whose flags take enumerated values.
func setupRootCommandCompletion(cmd *cobra.Command) {
	if err := cmd.RegisterFlagCompletionFunc("format", formatCompletion); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up format completion: %v\n", err)
	}
	if err := fieldsCmd.RegisterFlagCompletionFunc("kind", kindCompletion); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up kind completion: %v\n", err)
	}
	tokensCmd.ValidArgsFunction = fieldCompletion
	astCmd.ValidArgsFunction = fieldCompletion
}
