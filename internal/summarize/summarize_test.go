package summarize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/workgen-cli/internal/ai"
)

func TestSentencesKeepsDecimals(t *testing.T) {
	got := Sentences("The mean is 4.5 points. Is that high? Yes!  Trailing text")
	assert.Equal(t, []string{"The mean is 4.5 points.", "Is that high?", "Yes!", "Trailing text"}, got)
	assert.Empty(t, Sentences("   "))
	assert.Equal(t, []string{"Wait...", "ok."}, Sentences("Wait... ok."))
}

func TestCap(t *testing.T) {
	assert.Equal(t, "A. B.", Cap("A. B. C. D.", 2))
	assert.Equal(t, "A. B. C.", Cap("A. B. C. D.", 0))
}

func TestExtractiveShortTextUnchanged(t *testing.T) {
	text := "The Donut Chart shows Dept proportions, with the largest section being Sales. This visual helps to easily identify which categories take up the most share in the dataset."
	got, err := Extractive{}.Summarize(context.Background(), text, 3)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestExtractiveKeepsOriginalOrder(t *testing.T) {
	text := "Salary rises with tenure. Weather was mild. Salary and tenure drive salary bands. Lunch was served. Tenure predicts salary."
	got, err := Extractive{}.Summarize(context.Background(), text, 3)
	require.NoError(t, err)
	assert.Equal(t, "Salary rises with tenure. Salary and tenure drive salary bands. Tenure predicts salary.", got)

	again, err := Extractive{}.Summarize(context.Background(), text, 3)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

type fakeRuntime struct {
	reply string
	err   error
	seen  ai.GenerateRequest
}

func (f *fakeRuntime) Generate(_ context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	f.seen = req
	if f.err != nil {
		return nil, f.err
	}
	return &ai.GenerateResponse{Choices: []ai.Choice{{Message: ai.Message{Role: "assistant", Content: f.reply}}}}, nil
}

func TestLLMCapsSentences(t *testing.T) {
	rt := &fakeRuntime{reply: " One. Two. Three. Four. "}
	s := &LLM{Runtime: rt, Model: "m"}
	got, err := s.Summarize(context.Background(), "report text", 2)
	require.NoError(t, err)
	assert.Equal(t, "One. Two.", got)
	assert.Equal(t, "m", rt.seen.Model)
	require.Len(t, rt.seen.Messages, 2)
	assert.Contains(t, rt.seen.Messages[0].Content, "at most 2")
	assert.Equal(t, "report text", rt.seen.Messages[1].Content)
}

func TestLLMErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := (&LLM{Runtime: &fakeRuntime{err: boom}}).Summarize(context.Background(), "x", 3)
	assert.ErrorIs(t, err, boom)

	_, err = (&LLM{Runtime: &fakeRuntime{reply: "  "}}).Summarize(context.Background(), "x", 3)
	assert.ErrorIs(t, err, ErrEmptySummary)
}

func TestNew(t *testing.T) {
	s, err := New("", "", ai.Config{})
	require.NoError(t, err)
	assert.IsType(t, Extractive{}, s)

	s, err = New(" Ollama ", "llama3", ai.Config{})
	require.NoError(t, err)
	llm, ok := s.(*LLM)
	require.True(t, ok)
	assert.Equal(t, "llama3", llm.Model)

	_, err = New("lsa", "", ai.Config{})
	assert.Error(t, err)
}
