package workforce

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/KaramelBytes/workgen-cli/internal/dataset"
)

// DefaultScoreThreshold is the inclusive minimum score for eligibility.
const DefaultScoreThreshold = 3.0

var (
	ErrInsufficientEligibleMembers = errors.New("not enough eligible employees to fulfill the project requirement")
	ErrInvalidMemberCount          = errors.New("number of members must be at least 1")
)

// Selector filters rows by score and samples identities without replacement.
type Selector struct {
	// Threshold is the inclusive minimum score; zero means DefaultScoreThreshold.
	Threshold float64
	// Rand drives sampling; nil uses the package-level source.
	Rand *rand.Rand
}

func (s Selector) threshold() float64 {
	if s.Threshold == 0 {
		return DefaultScoreThreshold
	}
	return s.Threshold
}

func (s Selector) intn(n int) int {
	if s.Rand != nil {
		return s.Rand.Intn(n)
	}
	return rand.Intn(n)
}

// Eligible returns the row indexes whose score meets the threshold, in table
// order. Missing and non-numeric scores are never eligible.
func (s Selector) Eligible(t *dataset.Table, role ColumnRole) []int {
	col, ok := t.Column(role.Score)
	if !ok {
		return nil
	}
	thr := s.threshold()
	var rows []int
	for i := 0; i < col.Len(); i++ {
		if v, ok := col.Float(i); ok && v >= thr {
			rows = append(rows, i)
		}
	}
	return rows
}

// Select draws count distinct eligible rows uniformly at random and returns
// their identity values in sampling order.
func (s Selector) Select(t *dataset.Table, role ColumnRole, count int) ([]string, error) {
	if t == nil {
		return nil, dataset.ErrNoDatasetLoaded
	}
	if count < 1 {
		return nil, ErrInvalidMemberCount
	}
	ids, ok := t.Column(role.Identity)
	if !ok {
		return nil, ErrMissingIdentityColumn
	}
	pool := s.Eligible(t, role)
	if len(pool) < count {
		return nil, fmt.Errorf("%w (eligible %d, requested %d)", ErrInsufficientEligibleMembers, len(pool), count)
	}
	// partial Fisher-Yates over the eligible pool
	for i := 0; i < count; i++ {
		j := i + s.intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	out := make([]string, count)
	for i, row := range pool[:count] {
		out[i] = ids.Values[row]
	}
	return out, nil
}
