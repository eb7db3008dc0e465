package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/workgen-cli/internal/charts"
	"github.com/KaramelBytes/workgen-cli/internal/dataset"
	"github.com/KaramelBytes/workgen-cli/internal/report"
)

var (
	chartType string
	chartX    string
	chartY    string
	chartSize string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Draw a chart and record its generated insight",
	Long: `Chart draws one visualization of the loaded dataset.

  bar     --x <any column> --y <numeric column>
  pie     --x <categorical column>
  donut   --x <categorical column>
  bubble  --x <numeric> --y <numeric> --size <numeric>

The first time a chart is drawn its insight is summarized and appended to the
report; drawing the same chart again only redraws it. The full report is
printed after every chart.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := charts.ParseChartType(chartType)
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		t, err := s.Table()
		if err != nil {
			return err
		}
		req := charts.Request{Type: typ, X: chartX, Y: chartY, Size: chartSize}
		if err := req.Validate(t); err != nil {
			return withCandidates(err, t, typ)
		}
		sum, err := newSummarizer()
		if err != nil {
			return err
		}
		res, err := s.Visualize(cmd.Context(), req, sum, cfg.SummarySentences)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if err := charts.Render(out, res.Figure, cfg.ChartWidth); err != nil {
			return err
		}
		fmt.Fprintln(out)
		if res.New {
			if err := s.Save(); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Report added for %s\n", res.Key)
		} else {
			fmt.Fprintf(out, "%s\n", dimStyle.Render(fmt.Sprintf("%s was already reported", res.Key)))
		}
		fmt.Fprintln(out)
		printReportLog(out, s.Reports())
		return nil
	},
}

// withCandidates appends the columns a chart type accepts to a validation error.
func withCandidates(err error, t *dataset.Table, typ charts.ChartType) error {
	x, y, size := charts.Candidates(t, typ)
	var hints []string
	for _, c := range []struct {
		flag string
		cols []string
	}{{"--x", x}, {"--y", y}, {"--size", size}} {
		if len(c.cols) > 0 {
			hints = append(hints, fmt.Sprintf("%s one of [%s]", c.flag, strings.Join(c.cols, ", ")))
		}
	}
	if len(hints) == 0 {
		return fmt.Errorf("%w; the dataset has no suitable columns for a %s", err, typ)
	}
	return fmt.Errorf("%w; %s accepts %s", err, typ, strings.Join(hints, "; "))
}

func printReportLog(w io.Writer, log *report.Log) {
	heading(w, "Generated Text Report")
	if log.Len() == 0 {
		fmt.Fprintln(w, "(no reports yet)")
		return
	}
	fmt.Fprintln(w, log.Text())
}

func init() {
	chartCmd.Flags().StringVarP(&chartType, "type", "t", "", "chart type: bar, pie, bubble or donut")
	chartCmd.Flags().StringVar(&chartX, "x", "", "x-axis or category column")
	chartCmd.Flags().StringVar(&chartY, "y", "", "y-axis column (bar, bubble)")
	chartCmd.Flags().StringVar(&chartSize, "size", "", "bubble size column (bubble)")
	_ = chartCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(chartCmd)
}
