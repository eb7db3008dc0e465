package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/workgen-cli/internal/analysis"
	"github.com/KaramelBytes/workgen-cli/internal/charts"
)

var autovizCmd = &cobra.Command{
	Use:   "autoviz",
	Short: "Run the automated exploratory analysis and draw its figures",
	Long: `Autoviz sweeps the loaded dataset without user-chosen axes: a histogram per
numeric column, the most frequent values per categorical column and the
strongest correlations. Figures are not added to the report.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		t, err := s.Table()
		if err != nil {
			return err
		}
		figs, err := analysis.AutoViz(t, analysisOptions())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		heading(out, "Auto-generated Visualizations")
		if len(figs) == 0 {
			fmt.Fprintln(out, "⚠ Nothing to visualize in this dataset")
		}
		for _, fig := range figs {
			if err := charts.Render(out, fig, cfg.ChartWidth); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
		s.MarkAutoViz()
		return s.Save()
	},
}

func init() {
	rootCmd.AddCommand(autovizCmd)
}
