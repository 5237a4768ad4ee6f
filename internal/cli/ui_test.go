package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinterStats(t *testing.T) {
	tests := []struct {
		name   string
		items  int
		tiles  int
		cached bool
		want   []string
		absent string
	}{
		{"all placed", 4, 4, false, []string{"4 items", "fresh"}, "placed"},
		{"partial", 10, 7, true, []string{"10 items", "7 placed", "cached"}, "fresh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newPrinter(&buf).stats(tt.items, tt.tiles, tt.cached)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("stats() = %q, missing %q", out, w)
				}
			}
			if strings.Contains(out, tt.absent) {
				t.Errorf("stats() = %q, should not contain %q", out, tt.absent)
			}
		})
	}
}

func TestPackCommandSummary(t *testing.T) {
	doc := writeDoc(t)
	out, err := runCLI(t, "pack", doc)
	if err != nil {
		t.Fatalf("pack error: %v", err)
	}
	for _, want := range []string{"Pack complete", "quilt" + layoutSuffix, "4 items", "fresh", "quilt render "} {
		if !strings.Contains(out, want) {
			t.Errorf("pack output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Cell"}, [][]string{{"0.0", "(0,0)"}, {"0.1", "(2,0)"}})
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("renderTable() has %d lines, want 6:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "ID") || !strings.Contains(lines[4], "(2,0)") {
		t.Errorf("unexpected table:\n%s", out)
	}
}
