package summarize

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {}, "or": {}, "that": {},
	"the": {}, "this": {}, "to": {}, "with": {}, "which": {}, "within": {},
}

// Extractive ranks sentences by term-frequency salience and keeps the best
// ones in their original order. It never calls out of process.
type Extractive struct{}

func (Extractive) Summarize(_ context.Context, text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = DefaultSentences
	}
	sents := Sentences(text)
	if len(sents) <= maxSentences {
		return strings.Join(sents, " "), nil
	}

	freq := make(map[string]int)
	words := make([][]string, len(sents))
	for i, s := range sents {
		words[i] = terms(s)
		for _, w := range words[i] {
			freq[w]++
		}
	}
	type ranked struct {
		idx   int
		score float64
	}
	rs := make([]ranked, len(sents))
	for i, ws := range words {
		sum := 0
		for _, w := range ws {
			sum += freq[w]
		}
		score := 0.0
		if len(ws) > 0 {
			score = float64(sum) / float64(len(ws))
		}
		rs[i] = ranked{idx: i, score: score}
	}
	sort.SliceStable(rs, func(a, b int) bool { return rs[a].score > rs[b].score })

	keep := make([]int, 0, maxSentences)
	for _, r := range rs[:maxSentences] {
		keep = append(keep, r.idx)
	}
	sort.Ints(keep)
	out := make([]string, len(keep))
	for i, idx := range keep {
		out[i] = sents[idx]
	}
	return strings.Join(out, " "), nil
}

// terms lowercases s and returns its content words.
func terms(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if _, stop := stopwords[f]; stop || len(f) < 2 {
			continue
		}
		out = append(out, f)
	}
	return out
}
