// Package analysis describes a loaded dataset and runs the automated EDA sweep.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/workgen-cli/internal/dataset"
)

// Options bounds the amount of data analyzed.
type Options struct {
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// MaxCols limits columns processed; 0 means unlimited.
	MaxCols int
	// SampleRows is the number of head rows included in the report.
	SampleRows int
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outliers counts robust z-scores (MAD) above OutlierThreshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns the limits used by preview and autoviz.
func DefaultOptions() Options {
	return Options{
		MaxRows:          150000,
		MaxCols:          30,
		SampleRows:       5,
		Correlations:     true,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Report is a describe-style summary of a table.
type Report struct {
	Name      string
	Rows      int
	Processed int
	Header    []string
	Cols      []ColumnSummary
	Samples   [][]string
	Warnings  []string
	Corr      *CorrMatrix
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical|text|empty
	NonNull int
	Missing int
	Unique  int
	// numeric
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// NonFinite counts ±Inf and NaN cells; they bound Min/Max but are left
	// out of Mean, Std and outliers.
	NonFinite int
	// robust z via MAD
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// categorical
	TopValues    []CategoryCount
	ExampleTexts []string
}

type CategoryCount struct {
	Value string
	Count int
}

// CorrMatrix is a symmetric Pearson matrix over numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64
}

// PairCorr is one off-diagonal entry of a CorrMatrix.
type PairCorr struct {
	A, B string
	R    float64
}

// Analyze summarizes t within the limits of opt.
func Analyze(t *dataset.Table, opt Options) (*Report, error) {
	if t == nil {
		return nil, dataset.ErrNoDatasetLoaded
	}
	cols, rows, warnings := bounds(t, opt)
	rep := &Report{Name: t.Name, Rows: t.Len(), Processed: rows, Warnings: warnings}

	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	for _, c := range cols {
		rep.Header = append(rep.Header, c.Name)
	}
	if sampleRows > rows {
		sampleRows = rows
	}
	for _, row := range t.Head(sampleRows) {
		rep.Samples = append(rep.Samples, row[:len(cols)])
	}

	var numeric []*dataset.Column
	for _, c := range cols {
		s := summarize(c, rows, opt)
		if s.Kind == "numeric" {
			numeric = append(numeric, c)
		}
		rep.Cols = append(rep.Cols, s)
	}
	if opt.Correlations && len(numeric) >= 2 {
		rep.Corr = correlate(numeric, rows)
	}
	return rep, nil
}

// bounds applies MaxCols and MaxRows and reports what was cut.
func bounds(t *dataset.Table, opt Options) ([]*dataset.Column, int, []string) {
	var warnings []string
	names := t.Columns()
	if opt.MaxCols > 0 && len(names) > opt.MaxCols {
		warnings = append(warnings, fmt.Sprintf("processed only %d/%d columns due to MaxCols", opt.MaxCols, len(names)))
		names = names[:opt.MaxCols]
	}
	cols := make([]*dataset.Column, 0, len(names))
	for _, n := range names {
		c, _ := t.Column(n)
		cols = append(cols, c)
	}
	rows := t.Len()
	if opt.MaxRows > 0 && rows > opt.MaxRows {
		warnings = append(warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", opt.MaxRows, rows))
		rows = opt.MaxRows
	}
	return cols, rows, warnings
}

func summarize(c *dataset.Column, rows int, opt Options) ColumnSummary {
	s := ColumnSummary{Name: c.Name}
	cats := make(map[string]int)
	var vals []float64
	var n int
	var mean, m2 float64
	min, max := math.Inf(1), math.Inf(-1)
	bounded := false
	for i := 0; i < rows; i++ {
		if c.Missing(i) {
			s.Missing++
			continue
		}
		s.NonNull++
		if c.Kind == dataset.KindNumeric {
			x, _ := c.Float(i)
			if math.IsNaN(x) {
				s.NonFinite++
				continue
			}
			min = math.Min(min, x)
			max = math.Max(max, x)
			bounded = true
			if math.IsInf(x, 0) {
				s.NonFinite++
				continue
			}
			// Welford update
			n++
			delta := x - mean
			mean += delta / float64(n)
			m2 += delta * (x - mean)
			vals = append(vals, x)
			continue
		}
		v := c.Values[i]
		if len(cats) <= 10000 && len(v) <= 64 {
			cats[v]++
		}
		if len(s.ExampleTexts) < 3 {
			s.ExampleTexts = append(s.ExampleTexts, v)
		}
	}

	switch {
	case s.NonNull == 0:
		s.Kind = "empty"
	case c.Kind == dataset.KindNumeric:
		s.Kind = "numeric"
		s.Mean = mean
		if bounded {
			s.Min, s.Max = min, max
		}
		if n > 1 {
			s.Std = math.Sqrt(m2 / float64(n-1))
		}
		s.Unique = len(uniqueFloats(vals))
		if opt.Outliers && len(vals) >= 8 {
			s.OutlierThreshold = opt.OutlierThreshold
			if s.OutlierThreshold <= 0 {
				s.OutlierThreshold = 3.5
			}
			s.OutliersCount, s.OutliersMaxAbsZ = robustOutliers(vals, s.OutlierThreshold)
		}
	case len(cats) > 0:
		s.Kind = "categorical"
		s.TopValues = TopValues(cats, 8)
		s.Unique = len(cats)
		s.ExampleTexts = nil
	default:
		s.Kind = "text"
	}
	return s
}

// TopValues orders counts by frequency, then value, and keeps at most limit.
func TopValues(counts map[string]int, limit int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if limit > 0 && len(tops) > limit {
		tops = tops[:limit]
	}
	return tops
}

func finite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }

func uniqueFloats(vals []float64) map[float64]struct{} {
	out := make(map[float64]struct{}, len(vals))
	for _, v := range vals {
		out[v] = struct{}{}
	}
	return out
}

// correlate computes pairwise-complete Pearson coefficients.
func correlate(cols []*dataset.Column, rows int) *CorrMatrix {
	n := len(cols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			r := pearson(cols[a], cols[b], rows)
			m.Values[a][b], m.Values[b][a] = r, r
		}
	}
	return m
}

func pearson(x, y *dataset.Column, rows int) float64 {
	var n, sumX, sumY, sumXX, sumYY, sumXY float64
	for i := 0; i < rows; i++ {
		a, okA := x.Float(i)
		b, okB := y.Float(i)
		if !okA || !okB || !finite(a) || !finite(b) {
			continue
		}
		n++
		sumX += a
		sumY += b
		sumXX += a * a
		sumYY += b * b
		sumXY += a * b
	}
	if n < 2 {
		return 0
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}
	r := (n*sumXY - sumX*sumY) / denom
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

// Pairs lists the matrix's upper triangle ordered by |r| descending.
func (m *CorrMatrix) Pairs() []PairCorr {
	if m == nil {
		return nil
	}
	var pairs []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	return pairs
}

// robustOutliers counts values whose MAD z-score exceeds thr.
func robustOutliers(vals []float64, thr float64) (int, float64) {
	median, mad := medianMAD(vals)
	if mad == 0 {
		return 0, 0
	}
	cnt, maxAbsZ := 0, 0.0
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			cnt++
		}
		maxAbsZ = math.Max(maxAbsZ, az)
	}
	return cnt, maxAbsZ
}

func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := append([]float64(nil), vals...)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	return median, quantile(dev, 0.5)
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Markdown renders the head rows followed by the describe summary.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", r.Name)
	}
	if r.Processed < r.Rows {
		fmt.Fprintf(&b, "Rows: %d (processed %d)\n", r.Rows, r.Processed)
	} else {
		fmt.Fprintf(&b, "Rows: %d\n", r.Rows)
	}
	fmt.Fprintf(&b, "Columns: %d\n", len(r.Cols))

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD]\n")
		writeRow(&b, r.Header)
		sep := make([]string, len(r.Header))
		for i := range sep {
			sep[i] = "---"
		}
		writeRow(&b, sep)
		for _, row := range r.Samples {
			writeRow(&b, row)
		}
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		fmt.Fprintf(&b, "- %s: %s (non-null %d, missing %.1f%%)", safeVal(c.Name), c.Kind, c.NonNull, missPct)
		switch c.Kind {
		case "numeric":
			fmt.Fprintf(&b, ": min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std)
			if c.NonFinite > 0 {
				fmt.Fprintf(&b, "; non-finite %d", c.NonFinite)
			}
			if c.OutlierThreshold > 0 {
				fmt.Fprintf(&b, "; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold)
				if c.OutliersMaxAbsZ > 0 {
					fmt.Fprintf(&b, " (max |z|≈%.2f)", c.OutliersMaxAbsZ)
				}
			}
		case "categorical":
			b.WriteString(": top ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%s(%d)", safeVal(kv.Value), kv.Count)
			}
			if c.Unique > len(c.TopValues) {
				fmt.Fprintf(&b, "; unique=%d", c.Unique)
			}
		case "text":
			b.WriteString(": e.g., ")
			for i, ex := range c.ExampleTexts {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(ex))
			}
		}
		b.WriteString("\n")
	}

	if pairs := r.Corr.Pairs(); len(pairs) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		for _, p := range pairs {
			fmt.Fprintf(&b, "- %s ~ %s: r=%.3f\n", p.A, p.B, p.R)
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	for i, v := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		if len(v) > 80 {
			v = v[:77] + "..."
		}
		b.WriteString(safeVal(v))
	}
	b.WriteString(" |\n")
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
