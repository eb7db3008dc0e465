package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	default:
		return "text"
	}
}

// missingTokens are cell values treated as absent, mirroring common dataframe readers.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"#N/A": {},
}

// IsMissing reports whether a raw cell value represents a missing value.
func IsMissing(v string) bool {
	_, ok := missingTokens[strings.TrimSpace(v)]
	return ok
}

// Column is a named sequence of raw cell values with numeric views precomputed.
type Column struct {
	Name   string
	Kind   Kind
	Values []string

	nums  []float64
	valid []bool
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.Values) }

// Float returns the numeric value at row i. ok is false for missing or non-numeric cells.
func (c *Column) Float(i int) (float64, bool) {
	if i < 0 || i >= len(c.nums) {
		return 0, false
	}
	return c.nums[i], c.valid[i]
}

// Missing reports whether the cell at row i is missing.
func (c *Column) Missing(i int) bool {
	if i < 0 || i >= len(c.Values) {
		return true
	}
	return IsMissing(c.Values[i])
}

func (c *Column) infer() {
	c.nums = make([]float64, len(c.Values))
	c.valid = make([]bool, len(c.Values))
	present, numeric := 0, 0
	for i, raw := range c.Values {
		if IsMissing(raw) {
			continue
		}
		present++
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			c.nums[i] = f
			c.valid[i] = true
			numeric++
		}
	}
	if present > 0 && numeric == present {
		c.Kind = KindNumeric
	} else {
		c.Kind = KindText
	}
}

// Table is an ordered set of equal-length named columns.
type Table struct {
	Name    string
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a Table from a header row and records. Short records are padded,
// long records are truncated to the header width, and column names are
// deduplicated before the table is returned.
func New(name string, header []string, records [][]string) *Table {
	names := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = h
	}
	names = DedupColumnNames(names)

	t := &Table{Name: name, index: make(map[string]int, len(names)), rows: len(records)}
	t.columns = make([]*Column, len(names))
	for j, n := range names {
		t.columns[j] = &Column{Name: n, Values: make([]string, len(records))}
		t.index[n] = j
	}
	for i, rec := range records {
		for j := range names {
			if j < len(rec) {
				t.columns[j].Values[i] = strings.TrimSpace(rec[j])
			}
		}
	}
	for _, c := range t.columns {
		c.infer()
	}
	return t
}

// DedupColumnNames keeps the first occurrence of a repeated name and suffixes
// later occurrences with _1, _2, ... in order of appearance. A suffix that
// would collide with an existing name is skipped.
func DedupColumnNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)

	total := make(map[string]int, len(names))
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		total[n]++
		taken[n] = true
	}
	first := make(map[string]bool)
	next := make(map[string]int)
	for i, n := range names {
		if total[n] < 2 {
			continue
		}
		if !first[n] {
			first[n] = true
			continue
		}
		k := next[n]
		if k == 0 {
			k = 1
		}
		cand := n + "_" + strconv.Itoa(k)
		for taken[cand] {
			k++
			cand = n + "_" + strconv.Itoa(k)
		}
		out[i] = cand
		taken[cand] = true
		next[n] = k + 1
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns column names in table order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Name
	}
	return out
}

// Has reports whether the table has a column with the exact name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	j, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[j], true
}

// ColumnsOfKind returns the names of columns with the given kind, in table order.
func (t *Table) ColumnsOfKind(k Kind) []string {
	var out []string
	for _, c := range t.columns {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.columns))
	if i < 0 || i >= t.rows {
		return row
	}
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Head returns up to n leading rows.
func (t *Table) Head(n int) [][]string {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = t.Row(i)
	}
	return out
}
