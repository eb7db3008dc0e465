package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/workgen-cli/internal/charts"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what WorkGen does",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		names := make([]string, 0, len(charts.Types))
		for _, c := range charts.Types {
			names = append(names, c.String()+"s")
		}
		fmt.Fprintln(out, headingStyle.Render("Welcome to WorkGEN"))
		fmt.Fprintln(out, "A Real-Time Data Insight Platform")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Workforce Analytics and People Management helps you gain insights into your workforce data with visualizations and automated analysis.")
		fmt.Fprintln(out)
		heading(out, "Key Features")
		fmt.Fprintln(out, "- Load CSV or Excel files with your workforce data (workgen load).")
		fmt.Fprintln(out, "- Perform automated Exploratory Data Analysis (workgen autoviz).")
		fmt.Fprintf(out, "- Visualizations: %s (workgen chart).\n", joinAnd(names))
		fmt.Fprintln(out, "- Generate downloadable text insights on your dataset (workgen report).")
		fmt.Fprintln(out, "- Group eligible employees into projects (workgen project).")
		return nil
	},
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	s := ""
	for i, it := range items[:len(items)-1] {
		if i > 0 {
			s += ", "
		}
		s += it
	}
	return s + " and " + items[len(items)-1]
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
