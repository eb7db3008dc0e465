package charts

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/workgen-cli/internal/dataset"
)

// Report writes the insight text for a chart. The text depends only on the
// table and the request; ties resolve to the first row in table order.
func Report(t *dataset.Table, r Request) (string, error) {
	if err := r.Validate(t); err != nil {
		return "", err
	}
	switch r.Type {
	case Bar:
		return barReport(t, r)
	case Pie:
		return pieReport(t, r)
	case Bubble:
		return bubbleReport(t, r)
	case Donut:
		return donutReport(t, r)
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownChartType, int(r.Type))
}

func barReport(t *dataset.Table, r Request) (string, error) {
	row, err := argmax(t, r.Y)
	if err != nil {
		return "", err
	}
	x := cell(t, r.X, row)
	s := fmt.Sprintf("The Bar Chart visualizes the relationship between %s and %s. It appears that high values in %s are associated with %s variations. ", r.X, r.Y, r.Y, r.X)
	s += fmt.Sprintf("Some notable patterns are that the highest value in %s corresponds to %s. ", r.Y, x)
	s += "This might indicate a trend worth further analysis."
	return s, nil
}

func pieReport(t *dataset.Table, r Request) (string, error) {
	top, n, err := mode(t, r.X)
	if err != nil {
		return "", err
	}
	s := fmt.Sprintf("The Pie Chart represents %s distribution. The largest segment is %s with a count of %d, indicating this category's dominance. ", r.X, top, n)
	s += "This distribution might suggest preferences or population trends within this dataset."
	return s, nil
}

func bubbleReport(t *dataset.Table, r Request) (string, error) {
	row, err := argmax(t, r.Size)
	if err != nil {
		return "", err
	}
	s := fmt.Sprintf("The Bubble Chart illustrates the interaction between %s and %s with bubble sizes based on %s. ", r.X, r.Y, r.Size)
	s += fmt.Sprintf("Notably, the largest bubble is at %s in %s and %s in %s. ", cell(t, r.X, row), r.X, cell(t, r.Y, row), r.Y)
	s += "This correlation may reveal underlying factors impacting these values."
	return s, nil
}

func donutReport(t *dataset.Table, r Request) (string, error) {
	top, _, err := mode(t, r.X)
	if err != nil {
		return "", err
	}
	s := fmt.Sprintf("The Donut Chart shows %s proportions, with the largest section being %s. ", r.X, top)
	s += "This visual helps to easily identify which categories take up the most share in the dataset."
	return s, nil
}

// argmax returns the first row holding the column's maximum numeric value.
func argmax(t *dataset.Table, name string) (int, error) {
	col, ok := t.Column(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	best, row := 0.0, -1
	for i := 0; i < col.Len(); i++ {
		v, ok := col.Float(i)
		if !ok {
			continue
		}
		if row < 0 || v > best {
			best, row = v, i
		}
	}
	if row < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoValues, name)
	}
	return row, nil
}

// mode returns the most frequent non-missing value and its count.
func mode(t *dataset.Table, name string) (string, int, error) {
	counts, order := valueCounts(t, name)
	if len(order) == 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrNoValues, name)
	}
	top := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[top] {
			top = v
		}
	}
	return top, counts[top], nil
}

// valueCounts counts non-missing values; order lists values by first appearance.
func valueCounts(t *dataset.Table, name string) (map[string]int, []string) {
	col, ok := t.Column(name)
	if !ok {
		return nil, nil
	}
	counts := make(map[string]int)
	var order []string
	for i, v := range col.Values {
		if col.Missing(i) {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	return counts, order
}

func cell(t *dataset.Table, name string, row int) string {
	col, ok := t.Column(name)
	if !ok || col.Missing(row) {
		return "nan"
	}
	return col.Values[row]
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
