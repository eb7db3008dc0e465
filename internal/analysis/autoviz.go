package analysis

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/workgen-cli/internal/charts"
	"github.com/KaramelBytes/workgen-cli/internal/dataset"
)

const (
	maxHistBins  = 20
	topValueBars = 10
	corrPairs    = 10
)

// AutoViz sweeps the table without user-chosen axes: a histogram per numeric
// column, a top-values chart per categorical column and a correlation chart
// when at least two numeric columns exist.
func AutoViz(t *dataset.Table, opt Options) ([]charts.Figure, error) {
	if t == nil {
		return nil, dataset.ErrNoDatasetLoaded
	}
	cols, rows, warnings := bounds(t, opt)
	var figs []charts.Figure
	var numeric []*dataset.Column
	for _, c := range cols {
		switch c.Kind {
		case dataset.KindNumeric:
			numeric = append(numeric, c)
			figs = append(figs, histogram(c, rows))
		default:
			if fig, ok := topValues(c, rows); ok {
				figs = append(figs, fig)
			}
		}
	}
	if len(numeric) >= 2 {
		m := correlate(numeric, rows)
		fig := charts.Figure{Title: "Correlations (Pearson r)", Kind: charts.FigureMatrix}
		pairs := m.Pairs()
		if len(pairs) > corrPairs {
			pairs = pairs[:corrPairs]
		}
		for _, p := range pairs {
			fig.Labels = append(fig.Labels, p.A+" ~ "+p.B)
			fig.Values = append(fig.Values, p.R)
		}
		figs = append(figs, fig)
	}
	if len(warnings) > 0 && len(figs) > 0 {
		figs[0].Note = joinNotes(figs[0].Note, warnings)
	}
	return figs, nil
}

// histogram bins a numeric column using Sturges' rule.
func histogram(c *dataset.Column, rows int) charts.Figure {
	fig := charts.Figure{Title: "Distribution of " + c.Name, Kind: charts.FigureHistogram, XLabel: c.Name}
	var vals []float64
	skipped := 0
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < rows; i++ {
		if v, ok := c.Float(i); ok {
			if !finite(v) {
				skipped++
				continue
			}
			vals = append(vals, v)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if skipped > 0 {
		fig.Note = fmt.Sprintf("%d non-finite values skipped", skipped)
	}
	if len(vals) == 0 {
		return fig
	}
	if lo == hi {
		fig.Labels = []string{fmt.Sprintf("%.4g", lo)}
		fig.Values = []float64{float64(len(vals))}
		return fig
	}
	bins := int(math.Ceil(math.Log2(float64(len(vals))))) + 1
	if bins > maxHistBins {
		bins = maxHistBins
	}
	width := (hi - lo) / float64(bins)
	counts := make([]float64, bins)
	for _, v := range vals {
		k := int((v - lo) / width)
		k = max(0, min(k, bins-1))
		counts[k]++
	}
	for k := 0; k < bins; k++ {
		from := lo + float64(k)*width
		closer := ")"
		if k == bins-1 {
			closer = "]"
		}
		fig.Labels = append(fig.Labels, fmt.Sprintf("[%.4g, %.4g%s", from, from+width, closer))
	}
	fig.Values = counts
	fig.Note = joinNotes(fmt.Sprintf("n=%d, min %.4g, max %.4g", len(vals), lo, hi), noteIf(fig.Note))
	return fig
}

func topValues(c *dataset.Column, rows int) (charts.Figure, bool) {
	counts := make(map[string]int)
	for i := 0; i < rows; i++ {
		if !c.Missing(i) {
			counts[c.Values[i]]++
		}
	}
	if len(counts) == 0 {
		return charts.Figure{}, false
	}
	fig := charts.Figure{Title: "Top values of " + c.Name, Kind: charts.FigureBar, XLabel: c.Name}
	for _, tv := range TopValues(counts, topValueBars) {
		fig.Labels = append(fig.Labels, tv.Value)
		fig.Values = append(fig.Values, float64(tv.Count))
	}
	if len(counts) > topValueBars {
		fig.Note = fmt.Sprintf("%d distinct values", len(counts))
	}
	return fig, true
}

func noteIf(note string) []string {
	if note == "" {
		return nil
	}
	return []string{note}
}

func joinNotes(note string, extra []string) string {
	for _, w := range extra {
		if note != "" {
			note += "; "
		}
		note += w
	}
	return note
}
