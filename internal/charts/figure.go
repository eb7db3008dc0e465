package charts

import (
	"sort"

	"github.com/KaramelBytes/workgen-cli/internal/dataset"
)

// FigureKind selects how a Figure is drawn.
type FigureKind string

const (
	FigureBar       FigureKind = "bar"
	FigurePie       FigureKind = "pie"
	FigureDonut     FigureKind = "donut"
	FigureBubble    FigureKind = "bubble"
	FigureHistogram FigureKind = "histogram"
	FigureMatrix    FigureKind = "matrix"
)

// Point is one bubble.
type Point struct {
	X, Y, Size float64
}

// Figure is a renderable chart. Labeled kinds use Labels/Values; bubbles use Points.
type Figure struct {
	Title  string
	Kind   FigureKind
	XLabel string
	YLabel string
	Labels []string
	Values []float64
	Points []Point
	Note   string
}

// BuildFigure computes the data drawn for a request.
func BuildFigure(t *dataset.Table, r Request) (Figure, error) {
	if err := r.Validate(t); err != nil {
		return Figure{}, err
	}
	switch r.Type {
	case Bar:
		return barFigure(t, r), nil
	case Pie, Donut:
		kind := FigurePie
		if r.Type == Donut {
			kind = FigureDonut
		}
		counts, order := valueCounts(t, r.X)
		fig := Figure{Title: r.Type.String() + " of " + r.X, Kind: kind, XLabel: r.X}
		for _, v := range order {
			fig.Labels = append(fig.Labels, v)
			fig.Values = append(fig.Values, float64(counts[v]))
		}
		return fig, nil
	case Bubble:
		return bubbleFigure(t, r), nil
	}
	return Figure{}, ErrUnknownChartType
}

// barFigure sums y per x category in first-seen order.
func barFigure(t *dataset.Table, r Request) Figure {
	xs, _ := t.Column(r.X)
	ys, _ := t.Column(r.Y)
	sums := make(map[string]float64)
	var order []string
	for i := 0; i < t.Len(); i++ {
		y, ok := ys.Float(i)
		if !ok {
			continue
		}
		x := "nan"
		if !xs.Missing(i) {
			x = xs.Values[i]
		}
		if _, seen := sums[x]; !seen {
			order = append(order, x)
		}
		sums[x] += y
	}
	fig := Figure{Title: "Bar Chart of " + r.Y + " by " + r.X, Kind: FigureBar, XLabel: r.X, YLabel: r.Y}
	for _, x := range order {
		fig.Labels = append(fig.Labels, x)
		fig.Values = append(fig.Values, sums[x])
	}
	return fig
}

// bubbleFigure keeps rows where all three values are numeric, largest bubble first.
func bubbleFigure(t *dataset.Table, r Request) Figure {
	xs, _ := t.Column(r.X)
	ys, _ := t.Column(r.Y)
	ss, _ := t.Column(r.Size)
	fig := Figure{Title: "Bubble Chart of " + r.Y + " vs " + r.X, Kind: FigureBubble, XLabel: r.X, YLabel: r.Y, Note: "bubble size: " + r.Size}
	for i := 0; i < t.Len(); i++ {
		x, okx := xs.Float(i)
		y, oky := ys.Float(i)
		s, oks := ss.Float(i)
		if okx && oky && oks {
			fig.Points = append(fig.Points, Point{X: x, Y: y, Size: s})
		}
	}
	sort.SliceStable(fig.Points, func(a, b int) bool { return fig.Points[a].Size > fig.Points[b].Size })
	return fig
}
