// Package workforce selects eligible employees for projects and keeps the
// session's project registry.
package workforce

import (
	"errors"

	"github.com/KaramelBytes/workgen-cli/internal/dataset"
)

// Column names recognised for role resolution. Matching is exact and case-sensitive.
const (
	ColEmpID            = "EmpID"
	ColEmpName          = "EmpName"
	ColJobSatisfaction  = "JobSatisfaction"
	ColPerformanceLevel = "PerformanceLevel"
)

var (
	ErrMissingIdentityColumn = errors.New("the dataset should contain either 'EmpID' or 'EmpName' for creating project credentials")
	ErrMissingScoreColumn    = errors.New("the dataset should contain either 'JobSatisfaction' or 'PerformanceLevel' for creating project credentials")
)

var (
	identityOrder = []string{ColEmpID, ColEmpName}
	scoreOrder    = []string{ColJobSatisfaction, ColPerformanceLevel}
)

// ColumnRole names the identity and score columns of a table. A ColumnRole
// returned by ResolveRoles refers to columns that exist.
type ColumnRole struct {
	Identity string
	Score    string
}

// ResolveRoles picks the identity column (EmpID, then EmpName) and the score
// column (JobSatisfaction, then PerformanceLevel).
func ResolveRoles(t *dataset.Table) (ColumnRole, error) {
	if t == nil {
		return ColumnRole{}, dataset.ErrNoDatasetLoaded
	}
	var role ColumnRole
	if role.Identity = firstPresent(t, identityOrder); role.Identity == "" {
		return ColumnRole{}, ErrMissingIdentityColumn
	}
	if role.Score = firstPresent(t, scoreOrder); role.Score == "" {
		return ColumnRole{}, ErrMissingScoreColumn
	}
	return role, nil
}

func firstPresent(t *dataset.Table, names []string) string {
	for _, n := range names {
		if t.Has(n) {
			return n
		}
	}
	return ""
}
