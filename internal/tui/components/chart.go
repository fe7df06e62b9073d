package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/habits/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := 1 + int(v/peak*float64(len(blocks)-2))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 1 {
			idx = 1
		}
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BarChart renders a vertical bar chart of counts with an integer y-axis and
// x-axis labels. Too-narrow areas fall back to a sparkline.
func BarChart(values []int, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	floats := make([]float64, len(values))
	peak := 0
	for i, v := range values {
		floats[i] = float64(v)
		if v > peak {
			peak = v
		}
	}
	if width < 15 || height < 3 {
		return Sparkline(floats, color)
	}

	t := theme.Active
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	step := tickStep(peak, height)
	ceiling := int(math.Ceil(float64(max(peak, 1))/float64(step))) * step
	intervals := ceiling / step
	rowsPerTick := max(1, height/intervals)
	chartH := rowsPerTick * intervals

	yLabelW := max(3, len(fmt.Sprint(ceiling))+1)
	chartW := max(5, width-yLabelW-1)

	n := len(values)
	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := (chartW - (n-1)*gap) / n
	if barW < 1 {
		barW = 1
		gap = 0
	}
	if barW > 5 {
		barW = 5
	}
	axisLen := n*barW + (n-1)*gap

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := float64(ceiling) * float64(row) / float64(chartH)
		bottom := float64(ceiling) * float64(row-1) / float64(chartH)

		label := ""
		if row%rowsPerTick == 0 {
			label = fmt.Sprint(step * row / rowsPerTick)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range floats {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(barStyle.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(placeLabels(labels, barW, gap, axisLen)))
	}
	return b.String()
}

// placeLabels lays labels under their bars, skipping any that would overlap
// the previous one. The last label is always attempted.
func placeLabels(labels []string, barW, gap, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	lastEnd := -1
	put := func(i int) {
		lbl := []rune(labels[i])
		pos := i * (barW + gap)
		if pos+len(lbl) > axisLen {
			pos = axisLen - len(lbl)
		}
		if pos <= lastEnd || pos < 0 {
			return
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	for i := 0; i < len(labels)-1; i++ {
		put(i)
	}
	put(len(labels) - 1)
	return strings.TrimRight(string(buf), " ")
}

// tickStep picks an integer tick interval so the axis has at most height/2
// labeled rows.
func tickStep(peak, height int) int {
	maxTicks := max(2, height/2)
	step := 1
	for _, s := range []int{1, 2, 5, 10, 20, 50, 100, 200, 500} {
		step = s
		if int(math.Ceil(float64(max(peak, 1))/float64(s))) <= maxTicks {
			break
		}
	}
	return step
}

// GridRow is one habit line in a CompletionGrid.
type GridRow struct {
	Label string
	Color string
	Done  []bool
}

// CompletionGrid renders habits as rows and days as columns. cursorRow and
// cursorCol highlight one cell (-1 disables).
func CompletionGrid(rows []GridRow, dayLabels []string, labelW, cursorRow, cursorCol int) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	head := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	missed := lipgloss.NewStyle().Foreground(t.Missed).Background(t.Surface)
	cursor := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)

	var b strings.Builder
	b.WriteString(bg.Render(strings.Repeat(" ", labelW+1)))
	for _, d := range dayLabels {
		b.WriteString(head.Render(fmt.Sprintf("%2s", lastRunes(d, 2))))
	}
	for r, row := range rows {
		b.WriteString("\n")
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(row.Color)).Background(t.Surface)
		b.WriteString(name.Render(fmt.Sprintf("%-*s", labelW, truncate(row.Label, labelW))))
		b.WriteString(bg.Render(" "))
		done := lipgloss.NewStyle().Foreground(lipgloss.Color(row.Color)).Background(t.Surface)
		for c, ok := range row.Done {
			cell := " ·"
			style := missed
			if ok {
				cell = " ■"
				style = done
			}
			if r == cursorRow && c == cursorCol {
				style = cursor
				if !ok {
					cell = " □"
				}
			}
			b.WriteString(style.Render(cell))
		}
	}
	return b.String()
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
