package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, c.ScoreThreshold)
	assert.Equal(t, 3, c.SummarySentences)
	assert.Equal(t, "extractive", c.Summarizer)
	assert.Equal(t, 5, c.PreviewRows)
	assert.Equal(t, 150000, c.EDAMaxRows)
	assert.NotEmpty(t, c.SessionDir)
}

func TestSaveLoadAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Set("summary_sentences", "2"))
	require.NoError(t, c.Set("summarizer", "Local"))
	require.NoError(t, c.Set("session_dir", filepath.Join(filepath.Dir(path), "sess")))
	require.NoError(t, Save(c, path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "summarizer: ollama")

	t.Setenv("WORKGEN_PREVIEW_ROWS", "9")
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, back.SummarySentences)
	assert.Equal(t, "ollama", back.Summarizer)
	assert.Equal(t, 9, back.PreviewRows)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "sess"), back.SessionDir)
}

func TestSetValidation(t *testing.T) {
	c := &Global{}
	assert.Error(t, c.Set("summary_sentences", "0"))
	assert.Error(t, c.Set("eda_max_rows", "-1"))
	assert.Error(t, c.Set("summarizer", "lsa"))
	assert.Error(t, c.Set("score_threshold", "high"))
	assert.Error(t, c.Set("nope", "1"))
	assert.Error(t, c.Set("score_threshold", "0"))
	assert.Error(t, c.Set("score_threshold", "-2"))
	assert.Error(t, c.Set("score_threshold", "NaN"))
	require.NoError(t, c.Set("score_threshold", "3.5"))
	assert.Equal(t, 3.5, c.ScoreThreshold)
}

func TestGetMasksAPIKey(t *testing.T) {
	c := &Global{APIKey: "sk-or-1234567890"}
	v, err := c.Get("api_key")
	require.NoError(t, err)
	assert.Equal(t, "sk-****890", v)
	for _, k := range Keys {
		_, err := c.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestLoadRejectsNonPositiveThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("score_threshold: 0\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "score_threshold must be a positive number")
}

func TestLoadStoredIgnoresEnvAndKeepsPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session_dir: ~/wg\nscore_threshold: 0\n"), 0o644))
	t.Setenv("WORKGEN_API_KEY", "env-secret")
	t.Setenv("WORKGEN_PREVIEW_ROWS", "9")

	stored, err := LoadStored(path)
	require.NoError(t, err)
	assert.Empty(t, stored.APIKey)
	assert.Equal(t, 5, stored.PreviewRows)
	assert.Equal(t, "~/wg", stored.SessionDir)

	require.NoError(t, stored.Set("score_threshold", "4"))
	require.NoError(t, Save(stored, path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "env-secret")
	assert.Contains(t, string(b), "preview_rows: 5")

	eff, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", eff.APIKey)
	assert.Equal(t, 4.0, eff.ScoreThreshold)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "wg"), eff.SessionDir)
}
