package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/workgen-cli/internal/ai"
	"github.com/KaramelBytes/workgen-cli/internal/utils"
)

// ErrEmptySummary is returned when a runtime answers with no text.
var ErrEmptySummary = errors.New("summarizer returned an empty summary")

const defaultPromptTokens = 2000

// LLM asks a chat runtime for the summary, then enforces the sentence cap
// locally since models do not always respect it.
type LLM struct {
	Runtime ai.Runtime
	Model   string
	// MaxPromptTokens bounds the report text sent to the runtime.
	MaxPromptTokens int
	Log             *zap.Logger
}

func (l *LLM) Summarize(ctx context.Context, text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = DefaultSentences
	}
	limit := l.MaxPromptTokens
	if limit <= 0 {
		limit = defaultPromptTokens
	}
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	req := ai.GenerateRequest{
		Model: l.Model,
		Messages: []ai.Message{
			{Role: "system", Content: fmt.Sprintf("You condense chart commentary for a workforce analytics report. Reply with at most %d plain sentences and nothing else.", maxSentences)},
			{Role: "user", Content: utils.TruncateToTokenLimit(text, limit)},
		},
		Temperature: 0.2,
	}
	log.Debug("summarizing report", zap.String("model", l.Model), zap.Int("prompt_tokens", utils.CountTokens(text)))
	resp, err := l.Runtime.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	out := Cap(strings.TrimSpace(resp.Text()), maxSentences)
	if out == "" {
		return "", ErrEmptySummary
	}
	return out, nil
}
