package cli

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quilt/pkg/pipeline"
)

var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	shells := slices.Sorted(maps.Keys(completionShells))
	return &cobra.Command{
		Use:   "completion [" + strings.Join(shells, "|") + "]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for quilt and print it to stdout.

  $ source <(quilt completion bash)
  $ quilt completion zsh > "${fpath[1]}/_quilt"
  $ quilt completion fish > ~/.config/fish/completions/quilt.fish
  PS> quilt completion powershell | Out-String | Invoke-Expression

Besides commands and flags, the scripts complete document files, output
formats and growth directions.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completeDocuments limits file completion to document and layout files.
func completeDocuments(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"json", "toml"}, cobra.ShellCompDirectiveFilterFileExt
}

func completeDirections(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"vertical", "horizontal"}, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last entry of a comma-separated format list.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	chosen := strings.Split(prefix, ",")

	var out []string
	for _, f := range slices.Sorted(maps.Keys(pipeline.ValidFormats)) {
		if strings.HasPrefix(f, last) && !slices.Contains(chosen, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
