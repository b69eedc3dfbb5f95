package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/layout/axis"
	"github.com/matzehuels/chartlayout/pkg/layout/legend"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for chartlayout.

Completions cover subcommands and flag values: rotation modes, legend docks,
registered font families and the chart ids of a request file.

  $ source <(chartlayout completion bash)
  $ chartlayout completion zsh > "${fpath[1]}/_chartlayout"
  $ chartlayout completion fish | source
  PS> chartlayout completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// =============================================================================
// Flag Value Completion
// =============================================================================

type completionFunc func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// registerCompletions attaches value completion to every subcommand flag
// that takes a mode, dock, font family or chart id.
func (c *CLI) registerCompletions(root *cobra.Command) {
	funcs := map[string]completionFunc{
		"mode":   completeModes,
		"dock":   completeDocks,
		"family": c.completeFamilies,
		"chart":  completeChartIDs,
	}
	for _, cmd := range root.Commands() {
		for name, fn := range funcs {
			if cmd.Flags().Lookup(name) != nil {
				_ = cmd.RegisterFlagCompletionFunc(name, fn)
			}
		}
	}
}

func completeModes(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	modes := []string{string(axis.ModeAuto), string(axis.ModeAlways), string(axis.ModeNever)}
	return withPrefix(modes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeDocks(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	docks := make([]string, len(legend.Docks))
	for i, d := range legend.Docks {
		docks[i] = string(d)
	}
	return withPrefix(docks, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *CLI) completeFamilies(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if _, err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return withPrefix(c.fonts.Families(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeChartIDs lists the chart ids of the request file given as the
// first argument.
func completeChartIDs(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	reqs, err := pipeline.ReadRequestFile(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var ids []string
	for _, r := range reqs {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}
	return withPrefix(ids, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeRequestFile restricts the positional argument to JSON files.
func completeRequestFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

func withPrefix(values []string, prefix string) []string {
	var out []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out
}
