package workforce

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/workgen-cli/internal/dataset"
)

var (
	ErrDuplicateProjectName = errors.New("project already exists")
	ErrEmptyProjectName     = errors.New("project name cannot be empty")
)

// Project is a named, immutable selection of employees.
type Project struct {
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberList renders members as a comma-delimited list.
func (p Project) MemberList() string { return strings.Join(p.Members, ", ") }

// Registry maps project names to projects and remembers insertion order.
// Names are compared as exact strings.
type Registry struct {
	order    []string
	projects map[string]Project
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{projects: make(map[string]Project)}
}

// Exists reports whether a project with the exact name is registered.
func (r *Registry) Exists(name string) bool {
	_, ok := r.projects[name]
	return ok
}

// Get returns the project registered under name.
func (r *Registry) Get(name string) (Project, bool) {
	p, ok := r.projects[name]
	return p, ok
}

// Len returns the number of registered projects.
func (r *Registry) Len() int { return len(r.order) }

// Create registers members under name. An existing name is never overwritten.
func (r *Registry) Create(name string, members []string) (Project, error) {
	if name == "" {
		return Project{}, ErrEmptyProjectName
	}
	if r.Exists(name) {
		return Project{}, fmt.Errorf("%w: '%s'", ErrDuplicateProjectName, name)
	}
	if r.projects == nil {
		r.projects = make(map[string]Project)
	}
	p := Project{Name: name, Members: append([]string(nil), members...), CreatedAt: time.Now()}
	r.projects[name] = p
	r.order = append(r.order, name)
	return p, nil
}

// List returns all projects in insertion order.
func (r *Registry) List() []Project {
	out := make([]Project, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.projects[name])
	}
	return out
}

// CreateProject resolves column roles, samples count eligible members and
// registers them under name. On any error the registry is left unchanged.
func (r *Registry) CreateProject(t *dataset.Table, name string, count int, sel Selector) (Project, error) {
	if t == nil {
		return Project{}, dataset.ErrNoDatasetLoaded
	}
	if name == "" {
		return Project{}, ErrEmptyProjectName
	}
	role, err := ResolveRoles(t)
	if err != nil {
		return Project{}, err
	}
	if r.Exists(name) {
		return Project{}, fmt.Errorf("%w: '%s'", ErrDuplicateProjectName, name)
	}
	members, err := sel.Select(t, role, count)
	if err != nil {
		return Project{}, err
	}
	return r.Create(name, members)
}

// MarshalJSON encodes the registry as an ordered list of projects.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.List())
}

// UnmarshalJSON restores a registry encoded by MarshalJSON.
func (r *Registry) UnmarshalJSON(b []byte) error {
	var list []Project
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	r.order = nil
	r.projects = make(map[string]Project, len(list))
	for _, p := range list {
		if _, dup := r.projects[p.Name]; dup {
			return fmt.Errorf("%w: '%s'", ErrDuplicateProjectName, p.Name)
		}
		r.projects[p.Name] = p
		r.order = append(r.order, p.Name)
	}
	return nil
}
