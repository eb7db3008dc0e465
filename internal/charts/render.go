package charts

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	terminalWidthBackup = 80
	minBarWidth         = 10
	maxLabelWidth       = 24
	maxItems            = 20
	barGlyph            = "█"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4FA3D9"))
	negStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// Render draws a figure as text. width <= 0 uses the terminal width.
func Render(w io.Writer, fig Figure, width int) error {
	if width <= 0 {
		width = TerminalWidth()
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fig.Title))
	b.WriteString("\n")
	switch fig.Kind {
	case FigureBubble:
		renderBubbles(&b, fig, width)
	case FigurePie, FigureDonut:
		renderShares(&b, fig, width)
	default:
		renderBars(&b, fig, width)
	}
	if fig.Note != "" {
		b.WriteString(noteStyle.Render(fig.Note))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderBars(b *strings.Builder, fig Figure, width int) {
	if len(fig.Labels) == 0 {
		b.WriteString("(no data)\n")
		return
	}
	labels, values, rest := capItems(fig.Labels, fig.Values)
	lw := labelWidth(labels)
	barW := barWidth(width, lw)
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, math.Abs(v))
	}
	for i, l := range labels {
		style := barStyle
		if values[i] < 0 {
			style = negStyle
		}
		bar := style.Render(strings.Repeat(barGlyph, scaled(math.Abs(values[i]), peak, barW)))
		fmt.Fprintf(b, "%s │ %s %s\n", pad(l, lw), bar, formatNum(values[i]))
	}
	more(b, rest)
}

func renderShares(b *strings.Builder, fig Figure, width int) {
	if len(fig.Labels) == 0 {
		b.WriteString("(no data)\n")
		return
	}
	total := 0.0
	for _, v := range fig.Values {
		total += v
	}
	labels, values, rest := capItems(fig.Labels, fig.Values)
	lw := labelWidth(labels)
	barW := barWidth(width, lw)
	for i, l := range labels {
		pct := 0.0
		if total > 0 {
			pct = values[i] / total * 100
		}
		bar := barStyle.Render(strings.Repeat(barGlyph, scaled(values[i], total, barW)))
		fmt.Fprintf(b, "%s │ %s %s (%.1f%%)\n", pad(l, lw), bar, formatNum(values[i]), pct)
	}
	more(b, rest)
}

func renderBubbles(b *strings.Builder, fig Figure, width int) {
	if len(fig.Points) == 0 {
		b.WriteString("(no data)\n")
		return
	}
	pts := fig.Points
	rest := 0
	if len(pts) > maxItems {
		rest = len(pts) - maxItems
		pts = pts[:maxItems]
	}
	labels := make([]string, len(pts))
	for i, p := range pts {
		labels[i] = fmt.Sprintf("%s=%s %s=%s", fig.XLabel, formatNum(p.X), fig.YLabel, formatNum(p.Y))
	}
	lw := labelWidth(labels)
	barW := barWidth(width, lw)
	peak := 0.0
	for _, p := range pts {
		peak = math.Max(peak, math.Abs(p.Size))
	}
	for i, p := range pts {
		bar := barStyle.Render(strings.Repeat("●", scaled(math.Abs(p.Size), peak, barW)))
		fmt.Fprintf(b, "%s │ %s %s\n", pad(labels[i], lw), bar, formatNum(p.Size))
	}
	more(b, rest)
}

func capItems(labels []string, values []float64) ([]string, []float64, int) {
	if len(labels) <= maxItems {
		return labels, values, 0
	}
	return labels[:maxItems], values[:maxItems], len(labels) - maxItems
}

func more(b *strings.Builder, rest int) {
	if rest > 0 {
		fmt.Fprintf(b, "… %d more\n", rest)
	}
}

func labelWidth(labels []string) int {
	lw := 0
	for _, l := range labels {
		if n := lipgloss.Width(l); n > lw {
			lw = n
		}
	}
	if lw > maxLabelWidth {
		lw = maxLabelWidth
	}
	return lw
}

// barWidth leaves room for the label, separator and value column.
func barWidth(total, lw int) int {
	w := total - lw - 3 - 16
	if w < minBarWidth {
		w = minBarWidth
	}
	return w
}

func scaled(v, peak float64, width int) int {
	if peak <= 0 || v <= 0 || math.IsNaN(v) || math.IsNaN(peak) {
		return 0
	}
	if math.IsInf(v, 1) {
		return width
	}
	if math.IsInf(peak, 1) {
		return 1
	}
	n := int(math.Round(v / peak * float64(width)))
	if n < 1 {
		n = 1
	}
	return n
}

func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width <= 1 {
			return string(r[:width])
		}
		return string(r[:width-1]) + "…"
	}
	n := width - lipgloss.Width(s)
	if n < 0 {
		n = 0
	}
	return s + strings.Repeat(" ", n)
}
