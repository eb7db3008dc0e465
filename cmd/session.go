package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset the current session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the session id, dataset and counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "session: %s\n", s.ID())
		fmt.Fprintf(out, "dir: %s\n", s.Dir())
		fmt.Fprintf(out, "created: %s\n", s.CreatedAt().Format(time.RFC3339))
		if d := s.Dataset(); d != nil {
			fmt.Fprintf(out, "dataset: %s (%s, %d rows, %d columns)\n", d.Name, d.Format, d.Rows, len(d.Columns))
		} else {
			fmt.Fprintln(out, "dataset: (none)")
		}
		fmt.Fprintf(out, "projects: %d\n", len(s.Projects()))
		fmt.Fprintf(out, "charts: %d\n", s.ChartCount())
		for _, k := range s.Charts() {
			fmt.Fprintf(out, "  - %s\n", k)
		}
		fmt.Fprintf(out, "reports: %d\n", s.Reports().Len())
		fmt.Fprintf(out, "autoviz_run: %t\n", s.AutoVizRun())
		return nil
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the dataset, projects, charts and reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.Reset(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Session reset: %s\n", s.ID())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionResetCmd)
}
