package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAppendAndText(t *testing.T) {
	var l Log
	assert.Equal(t, "", l.Text())
	l.Append("first.")
	l.Append("second.")
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "first.\n\nsecond.", l.Text())

	got := l.Entries()
	got[0] = "changed"
	assert.Equal(t, "first.", l.Entries()[0])
}

func TestExportFormatsAreByteIdentical(t *testing.T) {
	var l Log
	l.Append("The Pie Chart represents Dept distribution.")
	l.Append("The Bar Chart visualizes the relationship between Dept and Salary.")

	txt, err := l.Export(FormatText)
	require.NoError(t, err)
	doc, err := l.Export(FormatWord)
	require.NoError(t, err)
	assert.Equal(t, txt, doc)
	assert.Equal(t, "analysis_report.txt", FormatText.Filename)
	assert.Equal(t, "analysis_report.doc", FormatWord.Filename)
	assert.Equal(t, FormatText.MIME, FormatWord.MIME)
}

func TestExportEmpty(t *testing.T) {
	var l Log
	_, err := l.Export(FormatText)
	assert.ErrorIs(t, err, ErrEmptyLog)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".DOC")
	require.NoError(t, err)
	assert.Equal(t, FormatWord, f)
	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLogJSON(t *testing.T) {
	var empty Log
	b, err := json.Marshal(&empty)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(b))

	var l Log
	l.Append("a")
	l.Append("b")
	b, err = json.Marshal(&l)
	require.NoError(t, err)
	var back Log
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, l.Entries(), back.Entries())
}
