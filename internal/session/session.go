// Package session owns the state of one interactive session: the loaded
// table, projects, the set of charts already reported and the report log.
// State is kept in a directory so consecutive CLI invocations share it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v2"
	"go.uber.org/zap"

	"github.com/KaramelBytes/workgen-cli/internal/charts"
	"github.com/KaramelBytes/workgen-cli/internal/dataset"
	"github.com/KaramelBytes/workgen-cli/internal/report"
	"github.com/KaramelBytes/workgen-cli/internal/utils"
	"github.com/KaramelBytes/workgen-cli/internal/workforce"
)

const (
	stateFileName    = "session.json"
	snapshotBaseName = "dataset"
)

// DatasetInfo describes the uploaded file backing the current table.
type DatasetInfo struct {
	Name     string    `json:"name"`
	Format   string    `json:"format"`
	Snapshot string    `json:"snapshot"`
	Rows     int       `json:"rows"`
	Columns  []string  `json:"columns"`
	LoadedAt time.Time `json:"loaded_at"`
}

// state is the persisted form of a Session.
type state struct {
	ID         uuid.UUID           `json:"id"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Dataset    *DatasetInfo        `json:"dataset,omitempty"`
	Projects   *workforce.Registry `json:"projects"`
	Charts     []charts.Key        `json:"charts"`
	Reports    *report.Log         `json:"reports"`
	AutoVizRun bool                `json:"autoviz_run"`
}

// Session is the context object every operation runs against.
type Session struct {
	dir    string
	st     state
	charts *set.Set[charts.Key]
	table  *dataset.Table

	// Selector samples project members; its zero value uses the default threshold.
	Selector workforce.Selector
	log      *zap.Logger
}

func fresh() state {
	now := time.Now()
	return state{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Projects:  workforce.NewRegistry(),
		Reports:   &report.Log{},
	}
}

// New returns an empty in-memory session rooted at dir. Nothing is written
// until Save.
func New(dir string, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{dir: dir, st: fresh(), charts: set.New[charts.Key](0), log: log}
}

// Open restores the session stored in dir, or starts a new one when dir holds none.
func Open(dir string, log *zap.Logger) (*Session, error) {
	s := New(dir, log)
	b, err := os.ReadFile(filepath.Join(dir, stateFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("starting new session", zap.String("dir", dir), zap.String("id", s.st.ID.String()))
			return s, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var st state
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if st.Projects == nil {
		st.Projects = workforce.NewRegistry()
	}
	if st.Reports == nil {
		st.Reports = &report.Log{}
	}
	s.st = st
	s.charts = set.From(st.Charts)
	s.log.Debug("opened session", zap.String("id", st.ID.String()), zap.Int("charts", s.charts.Size()), zap.Int("reports", st.Reports.Len()))
	return s, nil
}

// Save writes the session state atomically.
func (s *Session) Save() error {
	if s.dir == "" {
		return errors.New("session directory not set")
	}
	if err := utils.EnsureDir(s.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	s.st.UpdatedAt = time.Now()
	s.st.Charts = sortedKeys(s.charts)
	data, err := utils.PrettyJSON(s.st)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.dir, stateFileName), data)
}

// Reset discards everything, including the dataset snapshot, and starts a
// session with a new id.
func (s *Session) Reset() error {
	if info := s.st.Dataset; info != nil && info.Snapshot != "" {
		if err := os.Remove(filepath.Join(s.dir, info.Snapshot)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove snapshot: %w", err)
		}
	}
	old := s.st.ID
	s.st = fresh()
	s.charts = set.New[charts.Key](0)
	s.table = nil
	s.log.Info("session reset", zap.String("old_id", old.String()), zap.String("id", s.st.ID.String()))
	return s.Save()
}

func (s *Session) ID() uuid.UUID { return s.st.ID }
func (s *Session) Dir() string { return s.dir }
func (s *Session) CreatedAt() time.Time { return s.st.CreatedAt }
func (s *Session) Dataset() *DatasetInfo { return s.st.Dataset }
func (s *Session) Reports() *report.Log { return s.st.Reports }
func (s *Session) Projects() []workforce.Project { return s.st.Projects.List() }
func (s *Session) ChartCount() int { return s.charts.Size() }
func (s *Session) AutoVizRun() bool { return s.st.AutoVizRun }

// Charts returns the reported chart keys in a stable order.
func (s *Session) Charts() []charts.Key { return sortedKeys(s.charts) }

// HasChart reports whether a report was already generated for k.
func (s *Session) HasChart(k charts.Key) bool { return s.charts.Contains(k) }

// MarkAutoViz records that the automated EDA sweep ran.
func (s *Session) MarkAutoViz() { s.st.AutoVizRun = true }

// LoadFile parses the file at path and, on success, snapshots it into the
// session directory and replaces the current table. Projects, charts and
// reports are kept. On failure the session is unchanged.
func (s *Session) LoadFile(path string) (*dataset.Table, error) {
	t, content, err := dataset.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.adopt(path, content, t)
}

func (s *Session) adopt(name string, content []byte, t *dataset.Table) (*dataset.Table, error) {
	ext := strings.ToLower(filepath.Ext(name))
	snap := snapshotBaseName + ext
	if err := utils.SafeWriteFile(filepath.Join(s.dir, snap), content); err != nil {
		return nil, fmt.Errorf("snapshot dataset: %w", err)
	}
	if prev := s.st.Dataset; prev != nil && prev.Snapshot != "" && prev.Snapshot != snap {
		_ = os.Remove(filepath.Join(s.dir, prev.Snapshot))
	}
	s.st.Dataset = &DatasetInfo{
		Name:     filepath.Base(name),
		Format:   strings.TrimPrefix(ext, "."),
		Snapshot: snap,
		Rows:     t.Len(),
		Columns:  t.Columns(),
		LoadedAt: time.Now(),
	}
	s.table = t
	s.log.Info("dataset loaded", zap.String("name", s.st.Dataset.Name), zap.Int("rows", t.Len()), zap.Int("columns", len(s.st.Dataset.Columns)))
	return t, nil
}

// Table returns the current table, re-reading the snapshot when needed.
func (s *Session) Table() (*dataset.Table, error) {
	if s.table != nil {
		return s.table, nil
	}
	info := s.st.Dataset
	if info == nil {
		return nil, dataset.ErrNoDatasetLoaded
	}
	b, err := os.ReadFile(filepath.Join(s.dir, info.Snapshot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w (snapshot %s is missing)", dataset.ErrNoDatasetLoaded, info.Snapshot)
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	t, err := dataset.Load(info.Name, b)
	if err != nil {
		return nil, fmt.Errorf("reload snapshot: %w", err)
	}
	s.table = t
	return t, nil
}

func sortedKeys(s *set.Set[charts.Key]) []charts.Key {
	keys := s.Slice()
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Size < b.Size
	})
	return keys
}
