package cli

import (
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "__start_quilt"},
		{"zsh", "#compdef quilt"},
		{"fish", "complete -c quilt"},
		{"powershell", "Register-ArgumentCompleter"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out, err := runCLI(t, "completion", tt.shell)
			if err != nil {
				t.Fatalf("completion %s error: %v", tt.shell, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("completion %s output missing %q", tt.shell, tt.want)
			}
		})
	}

	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"json", "pdf", "png", "svg", "txt"}},
		{"p", []string{"pdf", "png"}},
		{"svg,", []string{"svg,json", "svg,pdf", "svg,png", "svg,txt"}},
		{"svg,png,t", []string{"svg,png,txt"}},
		{"svg,s", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, dir := completeFormats(nil, nil, tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("completeFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if dir&cobra.ShellCompDirectiveNoSpace == 0 {
				t.Error("format completion should not append a space")
			}
		})
	}
}

func TestDocumentCompletionRegistered(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"pack", "render", "inspect", "browse"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%s) error: %v", name, err)
		}
		if cmd.ValidArgsFunction == nil {
			t.Errorf("%s has no argument completion", name)
		}
	}
}
