// Package report accumulates generated chart reports for a session and
// exports them as downloadable text.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyLog      = errors.New("report log is empty")
	ErrUnknownFormat = errors.New("unknown export format")
)

// Separator joins log entries in the exported text.
const Separator = "\n\n"

// Log is an ordered, append-only sequence of report strings.
type Log struct {
	entries []string
}

// Append adds one entry to the end of the log.
func (l *Log) Append(entry string) {
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the entries in accumulation order.
func (l *Log) Entries() []string {
	return append([]string(nil), l.entries...)
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Text joins all entries with a blank line.
func (l *Log) Text() string {
	return strings.Join(l.entries, Separator)
}

func (l *Log) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

func (l *Log) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &l.entries)
}

// Format is a downloadable export artifact.
type Format struct {
	Name     string
	Filename string
	MIME     string
}

// Both formats carry the same plain text; only the file name differs.
// TODO: produce a real word-processor document for FormatWord.
var (
	FormatText = Format{Name: "txt", Filename: "analysis_report.txt", MIME: "text/plain"}
	FormatWord = Format{Name: "doc", Filename: "analysis_report.doc", MIME: "text/plain"}
)

// Formats lists the export formats in display order.
var Formats = []Format{FormatText, FormatWord}

// ParseFormat looks up a format by name ("txt", "doc") or extension (".txt").
func ParseFormat(s string) (Format, error) {
	v := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	for _, f := range Formats {
		if v == f.Name {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%w: %q (use txt or doc)", ErrUnknownFormat, s)
}

// Export renders the log for the given format.
func (l *Log) Export(f Format) ([]byte, error) {
	if l.Len() == 0 {
		return nil, ErrEmptyLog
	}
	return []byte(l.Text()), nil
}
