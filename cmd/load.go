package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/workgen-cli/internal/analysis"
	"github.com/KaramelBytes/workgen-cli/internal/dataset"
)

var loadPreview bool

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a CSV or Excel dataset into the session",
	Long: `Load parses a .csv, .tsv or .xlsx file and makes it the session's dataset.
Projects, charts and reports already in the session are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		path := args[0]
		t, err := s.LoadFile(path)
		if err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Loaded %s: %d rows, %d columns\n", filepath.Base(path), t.Len(), len(t.Columns()))
		fmt.Fprintf(out, "Columns: %s\n", strings.Join(t.Columns(), ", "))
		if loadPreview {
			return printPreview(cmd, t)
		}
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the first rows and a summary of the loaded dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		t, err := s.Table()
		if err != nil {
			return err
		}
		return printPreview(cmd, t)
	},
}

func printPreview(cmd *cobra.Command, t *dataset.Table) error {
	rep, err := analysis.Analyze(t, analysisOptions())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	heading(out, "Dataset Preview")
	fmt.Fprint(out, rep.Markdown())
	return nil
}

func init() {
	loadCmd.Flags().BoolVar(&loadPreview, "preview", false, "print the dataset preview after loading")
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(previewCmd)
}
