package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/KaramelBytes/workgen-cli/internal/charts"
	"github.com/KaramelBytes/workgen-cli/internal/summarize"
	"github.com/KaramelBytes/workgen-cli/internal/workforce"
)

// Result is the outcome of one visualization request.
type Result struct {
	Key    charts.Key
	Figure charts.Figure
	// Report is the summarized text appended to the log; empty when New is false.
	Report string
	// New is false when the chart had already been reported in this session.
	New bool
}

// Visualize builds the figure for req. The first request for a chart key
// generates and summarizes its report and appends it to the log; repeated
// requests only rebuild the figure.
func (s *Session) Visualize(ctx context.Context, req charts.Request, sum summarize.Summarizer, maxSentences int) (Result, error) {
	t, err := s.Table()
	if err != nil {
		return Result{}, err
	}
	fig, err := charts.BuildFigure(t, req)
	if err != nil {
		return Result{}, err
	}
	key := req.Key()
	res := Result{Key: key, Figure: fig}
	if s.charts.Contains(key) {
		s.log.Debug("chart already reported", zap.Stringer("key", key))
		return res, nil
	}
	text, err := charts.Report(t, req)
	if err != nil {
		return Result{}, err
	}
	if sum == nil {
		sum = summarize.Extractive{}
	}
	short, err := sum.Summarize(ctx, text, maxSentences)
	if err != nil {
		return Result{}, fmt.Errorf("summarize %s: %w", key, err)
	}
	s.st.Reports.Append(short)
	s.charts.Insert(key)
	s.log.Info("report generated", zap.Stringer("key", key), zap.Int("reports", s.st.Reports.Len()))
	res.Report = short
	res.New = true
	return res, nil
}

// CreateProject samples count eligible employees from the current table and
// registers them under name. The registry is unchanged on error.
func (s *Session) CreateProject(name string, count int) (workforce.Project, error) {
	t, err := s.Table()
	if err != nil {
		return workforce.Project{}, err
	}
	p, err := s.st.Projects.CreateProject(t, name, count, s.Selector)
	if err != nil {
		return workforce.Project{}, err
	}
	s.log.Info("project created", zap.String("name", p.Name), zap.Int("members", len(p.Members)))
	return p, nil
}
