// Package summarize condenses generated chart reports to a few sentences.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/KaramelBytes/workgen-cli/internal/ai"
)

// DefaultSentences is the sentence budget used when none is given.
const DefaultSentences = 3

// Summarizer shortens text to at most maxSentences sentences.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxSentences int) (string, error)
}

// Names of the built-in summarizers.
const (
	NameExtractive = "extractive"
	NameOpenRouter = ai.ProviderOpenRouter
	NameOllama     = ai.ProviderOllama
)

// New returns the summarizer registered under name. LLM-backed summarizers
// build their runtime from rc.
func New(name, model string, rc ai.Config) (Summarizer, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", NameExtractive:
		return Extractive{}, nil
	case NameOpenRouter, NameOllama:
		rt, err := ai.New(n, rc)
		if err != nil {
			return nil, err
		}
		return &LLM{Runtime: rt, Model: model, Log: rc.Logger}, nil
	}
	return nil, fmt.Errorf("unknown summarizer %q (use extractive, openrouter or ollama)", name)
}

// Sentences splits text at '.', '!' or '?' followed by whitespace or the end
// of input, so decimals such as "4.5" stay whole.
func Sentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && (isTerminator(runes[j]) || runes[j] == '"' || runes[j] == '\'' || runes[j] == ')') {
			j++
		}
		if j < len(runes) && !unicode.IsSpace(runes[j]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start:j])); s != "" {
			out = append(out, s)
		}
		start = j
		i = j - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminator(r rune) bool { return r == '.' || r == '!' || r == '?' }

// Cap keeps the first n sentences of text, joined with single spaces.
func Cap(text string, n int) string {
	if n <= 0 {
		n = DefaultSentences
	}
	s := Sentences(text)
	if len(s) > n {
		s = s[:n]
	}
	return strings.Join(s, " ")
}
