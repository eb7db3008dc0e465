// Package charts models visualization requests, the deterministic report text
// written for each chart, and a terminal renderer for chart figures.
package charts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/workgen-cli/internal/dataset"
)

// ChartType is the closed set of supported visualizations.
type ChartType int

const (
	Bar ChartType = iota + 1
	Pie
	Bubble
	Donut
)

// Types lists every chart type in menu order.
var Types = []ChartType{Bar, Pie, Bubble, Donut}

var (
	ErrUnknownChartType = errors.New("unknown chart type")
	ErrUnknownColumn    = errors.New("unknown column")
	ErrColumnKind       = errors.New("column has the wrong kind for this chart")
	ErrNoValues         = errors.New("column has no usable values")
)

func (c ChartType) String() string {
	switch c {
	case Bar:
		return "Bar Chart"
	case Pie:
		return "Pie Chart"
	case Bubble:
		return "Bubble Chart"
	case Donut:
		return "Donut Chart"
	default:
		return fmt.Sprintf("ChartType(%d)", int(c))
	}
}

// Slug is the short lowercase name used on the command line.
func (c ChartType) Slug() string {
	switch c {
	case Bar:
		return "bar"
	case Pie:
		return "pie"
	case Bubble:
		return "bubble"
	case Donut:
		return "donut"
	default:
		return ""
	}
}

// ParseChartType accepts a slug ("bar") or display name ("Bar Chart"), case-insensitively.
func ParseChartType(s string) (ChartType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, " chart")
	for _, c := range Types {
		if v == c.Slug() {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (use bar, pie, bubble or donut)", ErrUnknownChartType, s)
}

// MarshalText encodes the chart type as its slug.
func (c ChartType) MarshalText() ([]byte, error) {
	if c.Slug() == "" {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChartType, int(c))
	}
	return []byte(c.Slug()), nil
}

// UnmarshalText decodes a slug.
func (c *ChartType) UnmarshalText(b []byte) error {
	v, err := ParseChartType(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Request is one visualization request. Pie and Donut use X as the category
// column; Bubble uses Size for bubble sizes.
type Request struct {
	Type ChartType
	X    string
	Y    string
	Size string
}

// Key identifies a chart instance: the type plus the columns relevant to it.
type Key struct {
	Type ChartType `json:"type"`
	X    string    `json:"x,omitempty"`
	Y    string    `json:"y,omitempty"`
	Size string    `json:"size,omitempty"`
}

// Key drops the columns a chart type does not use so that equal charts
// produce equal keys.
func (r Request) Key() Key {
	switch r.Type {
	case Bar:
		return Key{Type: Bar, X: r.X, Y: r.Y}
	case Pie, Donut:
		return Key{Type: r.Type, X: r.X}
	case Bubble:
		return Key{Type: Bubble, X: r.X, Y: r.Y, Size: r.Size}
	default:
		return Key{Type: r.Type}
	}
}

func (k Key) String() string {
	parts := []string{k.Type.String()}
	for _, c := range []string{k.X, k.Y, k.Size} {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Validate checks that the columns exist and have the kind the chart needs:
// Bar takes any x and a numeric y, Pie and Donut a text category, Bubble three
// numeric columns.
func (r Request) Validate(t *dataset.Table) error {
	if t == nil {
		return dataset.ErrNoDatasetLoaded
	}
	switch r.Type {
	case Bar:
		if err := need(t, "x", r.X, -1); err != nil {
			return err
		}
		return need(t, "y", r.Y, dataset.KindNumeric)
	case Pie, Donut:
		return need(t, "category", r.X, dataset.KindText)
	case Bubble:
		for _, c := range [][2]string{{"x", r.X}, {"y", r.Y}, {"size", r.Size}} {
			if err := need(t, c[0], c[1], dataset.KindNumeric); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownChartType, int(r.Type))
	}
}

// need checks one column; kind < 0 accepts any kind.
func need(t *dataset.Table, role, name string, kind dataset.Kind) error {
	if name == "" {
		return fmt.Errorf("%w: %s column is required", ErrUnknownColumn, role)
	}
	col, ok := t.Column(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if kind >= 0 && col.Kind != kind {
		return fmt.Errorf("%w: %s column %q is %s, want %s", ErrColumnKind, role, name, col.Kind, kind)
	}
	return nil
}

// Candidates returns the columns offered for each selector of a chart type.
func Candidates(t *dataset.Table, c ChartType) (x, y, size []string) {
	numeric := t.ColumnsOfKind(dataset.KindNumeric)
	switch c {
	case Bar:
		return t.Columns(), numeric, nil
	case Pie, Donut:
		return t.ColumnsOfKind(dataset.KindText), nil, nil
	case Bubble:
		return numeric, numeric, numeric
	}
	return nil, nil, nil
}
