package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// resetFlags clears flag values and Changed state left by earlier invocations.
func resetFlags() {
	sticky := map[*pflag.FlagSet][]string{
		rootCmd.PersistentFlags(): {"http-timeout", "retry-max", "retry-base-ms", "retry-max-ms"},
		chartCmd.Flags():          {"type", "x", "y", "size"},
		loadCmd.Flags():           {"preview"},
		reportExportCmd.Flags():   {"format", "output"},
		projectCreateCmd.Flags():  {"name", "members"},
	}
	for fs, names := range sticky {
		for _, name := range names {
			if fl := fs.Lookup(name); fl != nil {
				_ = fl.Value.Set(fl.DefValue)
				fl.Changed = false
			}
		}
	}
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	os.Setenv("HOME", home)
	return home
}

const hrCSV = `EmpID,Dept,Salary,JobSatisfaction
E1,Sales,100,5
E2,Ops,300,2
E3,Sales,300,4
E4,HR,50,3
E5,Ops,120,1
`

func TestCLI_NoDatasetLoaded(t *testing.T) {
	isolateHome(t)
	for _, args := range [][]string{
		{"chart", "--type", "bar", "--x", "Dept", "--y", "Salary"},
		{"preview"},
		{"autoviz"},
		{"project", "create", "--name", "P1", "--members", "1"},
	} {
		_, err := runCmd(t, args...)
		if err == nil || !strings.Contains(err.Error(), "please upload a dataset first") {
			t.Fatalf("%v: expected no-dataset error, got %v", args, err)
		}
	}
}

func TestCLI_Load_Chart_Report_Project_Reset(t *testing.T) {
	home := isolateHome(t)
	csvPath := filepath.Join(home, "hr.csv")
	if err := os.WriteFile(csvPath, []byte(hrCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out := mustRun(t, "load", csvPath)
	if !strings.Contains(out, "✓ Loaded hr.csv: 5 rows, 4 columns") {
		t.Fatalf("unexpected load output: %q", out)
	}

	out = mustRun(t, "chart", "--type", "bar", "--x", "Dept", "--y", "Salary")
	if !strings.Contains(out, "✓ Report added for (Bar Chart, Dept, Salary)") {
		t.Fatalf("first chart should add a report: %q", out)
	}
	out = mustRun(t, "chart", "--type", "bar", "--x", "Dept", "--y", "Salary")
	if !strings.Contains(out, "already reported") {
		t.Fatalf("second chart should be a duplicate: %q", out)
	}
	if got := strings.Count(out, "The Bar Chart visualizes"); got != 1 {
		t.Fatalf("report log should hold one bar entry, found %d", got)
	}
	mustRun(t, "chart", "--type", "pie", "--x", "Dept")

	out = mustRun(t, "session", "show")
	if !strings.Contains(out, "reports: 2") || !strings.Contains(out, "charts: 2") {
		t.Fatalf("unexpected session state: %q", out)
	}

	if _, err := runCmd(t, "chart", "--type", "pie", "--x", "Salary"); err == nil || !strings.Contains(err.Error(), "--x one of [EmpID, Dept]") {
		t.Fatalf("expected column kind error with candidates, got %v", err)
	}

	exportDir := filepath.Join(home, "exports")
	mustRun(t, "report", "export", "--format", "txt", "--output", exportDir)
	mustRun(t, "report", "export", "--format", "doc", "--output", exportDir)
	txt, err := os.ReadFile(filepath.Join(exportDir, "analysis_report.txt"))
	if err != nil {
		t.Fatalf("read txt: %v", err)
	}
	doc, err := os.ReadFile(filepath.Join(exportDir, "analysis_report.doc"))
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	if !bytes.Equal(txt, doc) {
		t.Fatalf("exports differ")
	}
	if !strings.Contains(string(txt), "\n\nThe Pie Chart represents Dept distribution.") {
		t.Fatalf("entries should be joined by a blank line: %q", txt)
	}

	out = mustRun(t, "project", "create", "--name", "P1", "--members", "2")
	if !strings.Contains(out, "✓ Project 'P1' created with members: ") {
		t.Fatalf("unexpected create output: %q", out)
	}
	if _, err := runCmd(t, "project", "create", "--name", "P1", "--members", "1"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected duplicate project error, got %v", err)
	}
	if _, err := runCmd(t, "project", "create", "--name", "P2", "--members", "4"); err == nil || !strings.Contains(err.Error(), "not enough eligible employees") {
		t.Fatalf("expected insufficient members error, got %v", err)
	}
	out = mustRun(t, "project", "list")
	if !strings.Contains(out, "Project Name") || strings.Count(out, "P1") != 1 || strings.Contains(out, "P2") {
		t.Fatalf("unexpected project list: %q", out)
	}

	mustRun(t, "session", "reset")
	out = mustRun(t, "session", "show")
	if !strings.Contains(out, "dataset: (none)") || !strings.Contains(out, "reports: 0") || !strings.Contains(out, "projects: 0") {
		t.Fatalf("reset should clear the session: %q", out)
	}
	if _, err := runCmd(t, "report", "export"); err == nil {
		t.Fatalf("exporting an empty report should fail")
	}
}

func TestCLI_AutovizAndConfig(t *testing.T) {
	home := isolateHome(t)
	csvPath := filepath.Join(home, "hr.csv")
	if err := os.WriteFile(csvPath, []byte(hrCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	mustRun(t, "load", csvPath)
	out := mustRun(t, "autoviz")
	if !strings.Contains(out, "Distribution of Salary") {
		t.Fatalf("expected a salary histogram: %q", out)
	}
	if out := mustRun(t, "session", "show"); !strings.Contains(out, "autoviz_run: true") || !strings.Contains(out, "reports: 0") {
		t.Fatalf("autoviz should be recorded without reports: %q", out)
	}

	mustRun(t, "config", "set", "api_key", "sk-or-secret-value")
	out = mustRun(t, "config", "show")
	if strings.Contains(out, "secret") || !strings.Contains(out, "api_key: sk-****lue") {
		t.Fatalf("api key should be masked: %q", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".workgen", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	if _, err := runCmd(t, "config", "set", "summarizer", "lsa"); err == nil {
		t.Fatalf("expected invalid summarizer error")
	}
}

func TestCLI_ConfigSetKeepsOverridesOut(t *testing.T) {
	home := isolateHome(t)
	t.Setenv("WORKGEN_API_KEY", "env-only-key")

	mustRun(t, "--retry-max", "9", "config", "set", "summarizer", "ollama")
	b, err := os.ReadFile(filepath.Join(home, ".workgen", "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	saved := string(b)
	if !strings.Contains(saved, "summarizer: ollama") {
		t.Fatalf("summarizer not saved: %q", saved)
	}
	if !strings.Contains(saved, "retry_max_attempts: 3") || strings.Contains(saved, "env-only-key") || strings.Contains(saved, home) {
		t.Fatalf("per-run overrides leaked into the config file: %q", saved)
	}

	if _, err := runCmd(t, "config", "set", "score_threshold", "0"); err == nil {
		t.Fatalf("expected a non-positive threshold to be rejected")
	}
}
