package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"percent", FormatPercent(67), "67%"},
		{"ratio", FormatRatio(2, 3), "2/3"},
		{"one day", FormatDays(1), "1 day"},
		{"zero days", FormatDays(0), "0 days"},
		{"id", FormatID(1709251200000), "1709251200000"},
		{"truncated", Truncate("Meditation", 6), "Medit…"},
		{"short", Truncate("Read", 6), "Read"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestRenderTable_AlignsGlyphs(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Habit", "Mon"},
		Rows: [][]string{
			{"Read", CheckMark},
			{"Run", EmptyMark},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	width := lipgloss.Width(lines[0])
	for i, l := range lines {
		if w := lipgloss.Width(l); w != width {
			t.Errorf("line %d width = %d, want %d: %q", i, w, width, l)
		}
	}
}

func TestRenderProgressBar(t *testing.T) {
	if out := RenderProgressBar(2, 4, 10); !strings.Contains(out, "2/4") {
		t.Errorf("progress bar missing count: %q", out)
	}
	if out := RenderProgressBar(0, 0, 10); !strings.Contains(out, "0/0") {
		t.Errorf("empty progress bar missing count: %q", out)
	}
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		in   []float64
		want string
	}{
		{nil, ""},
		{[]float64{0, 3}, "▁█"},
		{[]float64{0, 0}, "▁▁"},
	}
	for _, tt := range tests {
		if got := RenderSparkline(tt.in); got != tt.want {
			t.Errorf("RenderSparkline(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
