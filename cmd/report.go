package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/workgen-cli/internal/report"
	"github.com/KaramelBytes/workgen-cli/internal/utils"
)

var (
	exportFormat string
	exportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show or export the generated text report",
}

var reportShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every report entry in the order it was generated",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		printReportLog(cmd.OutOrStdout(), s.Reports())
		return nil
	},
}

var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the report to analysis_report.txt or analysis_report.doc",
	Long: `Export joins the report entries with blank lines and writes them to a file.
Both formats contain the same plain text (MIME text/plain); only the file name differs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := report.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		b, err := s.Reports().Export(f)
		if err != nil {
			return err
		}
		dir, err := utils.ExpandHome(exportOutput)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, f.Filename)
		if err := utils.SafeWriteFile(path, b); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Report exported: %s (%s, %d bytes)\n", path, f.MIME, len(b))
		return nil
	},
}

func init() {
	reportExportCmd.Flags().StringVarP(&exportFormat, "format", "f", report.FormatText.Name, "export format: txt or doc")
	reportExportCmd.Flags().StringVarP(&exportOutput, "output", "o", ".", "directory to write the report into")
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportExportCmd)
}
