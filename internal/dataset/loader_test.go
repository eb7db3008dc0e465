package dataset

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSVDedupsHeader(t *testing.T) {
	content := "\xef\xbb\xbfEmpID,Score,Score\n1,3,4\n2,5,1\n"
	tbl, err := Load("staff.csv", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, "staff.csv", tbl.Name)
	assert.Equal(t, []string{"EmpID", "Score", "Score_1"}, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())
}

func TestLoadFileCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(p, []byte("EmpName,JobSatisfaction\nAda,4\n"), 0o644))
	tbl, raw, err := LoadFile(p)
	require.NoError(t, err)
	assert.True(t, tbl.Has("EmpName"))
	assert.Equal(t, "EmpName,JobSatisfaction\nAda,4\n", string(raw))

	_, _, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, _, err = LoadFile("notes.pdf")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestLoadTSV(t *testing.T) {
	tbl, err := Load("x.tsv", []byte("a\tb\n1\t2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
}

func TestLoadEmptyCSV(t *testing.T) {
	_, err := Load("empty.csv", nil)
	assert.True(t, errors.Is(err, ErrNoHeader))
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load("notes.json", []byte("{}"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.False(t, Supported("notes.json"))
	assert.True(t, Supported("DATA.XLSX"))
}

func TestLoadLegacyXLSRejected(t *testing.T) {
	_, err := Load("old.xls", []byte{0xD0, 0xCF, 0x11, 0xE0})
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestLoadXLSXFirstSheet(t *testing.T) {
	data := buildWorkbook(t)
	tbl, err := Load("staff.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"EmpID", "Dept", "Dept_1"}, tbl.Columns())
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"101", "Sales", ""}, tbl.Row(0))
	assert.Equal(t, []string{"102", "", "Ops"}, tbl.Row(1))
	id, _ := tbl.Column("EmpID")
	assert.Equal(t, KindNumeric, id.Kind)

	// An OOXML workbook mislabelled .xls still loads.
	tbl, err = Load("staff.xls", data)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestLoadXLSXCorruptMember(t *testing.T) {
	data := buildWorkbook(t)
	// stored members keep their bytes verbatim, so this breaks the sheet's checksum
	bad := bytes.Replace(data, []byte("<v>101</v>"), []byte("<v>109</v>"), 1)
	require.NotEqual(t, data, bad)
	_, err := Load("staff.xlsx", bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, zip.ErrChecksum)
	assert.Contains(t, err.Error(), "xl/worksheets/data.xml")
}

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	files := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Staff" sheetId="7" r:id="rId1"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/data.xml"/>
</Relationships>`,
		"xl/sharedStrings.xml": `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<si><t>EmpID</t></si><si><t>Dept</t></si><si><t>Sales</t></si><si><t>Ops</t></si></sst>`,
		"xl/worksheets/data.xml": `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" t="s"><v>1</v></c></row>
<row r="2"><c r="A2"><v>101</v></c><c r="B2" t="s"><v>2</v></c></row>
<row r="3"><c r="A3"><v>102</v></c><c r="C3" t="inlineStr"><is><t>Ops</t></is></c></row>
</sheetData></worksheet>`,
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
