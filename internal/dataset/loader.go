package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader parses an uploaded file into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(name string, content []byte) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates a file format no loader accepts.
var ErrUnsupported = errors.New("unsupported dataset format")

// ErrNoHeader indicates an empty file without a header row.
var ErrNoHeader = errors.New("dataset has no header row")

// Supported reports whether some registered loader accepts the filename.
func Supported(filename string) bool {
	for _, l := range registry {
		if l.CanLoad(filename) {
			return true
		}
	}
	return false
}

// Load selects a loader by filename and parses content. The returned table
// already has deduplicated column names.
func Load(name string, content []byte) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(name) {
			return l.Load(filepath.Base(name), content)
		}
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = "(no extension)"
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
}

// LoadFile reads path from disk and parses it with Load. The raw content is
// returned alongside the table so callers can keep a copy.
func LoadFile(path string) (*Table, []byte, error) {
	if !Supported(path) {
		_, err := Load(path, nil)
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	t, err := Load(path, data)
	if err != nil {
		return nil, nil, err
	}
	return t, data, nil
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// ErrNoDatasetLoaded is returned by operations that need a Table when none is loaded.
var ErrNoDatasetLoaded = errors.New("please upload a dataset first")
