package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/workgen-cli/internal/utils"
)

const (
	envPrefix = "WORKGEN"
	dirName   = ".workgen"
)

// Global configuration structure.
type Global struct {
	// Project eligibility
	ScoreThreshold float64 `mapstructure:"score_threshold" yaml:"score_threshold"`

	// Report summarization
	SummarySentences int    `mapstructure:"summary_sentences" yaml:"summary_sentences"`
	Summarizer       string `mapstructure:"summarizer" yaml:"summarizer"`
	SummarizerModel  string `mapstructure:"summarizer_model" yaml:"summarizer_model"`
	APIKey           string `mapstructure:"api_key" yaml:"api_key"`
	OllamaHost       string `mapstructure:"ollama_host" yaml:"ollama_host"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Session and views
	SessionDir  string `mapstructure:"session_dir" yaml:"session_dir"`
	PreviewRows int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	EDAMaxRows  int    `mapstructure:"eda_max_rows" yaml:"eda_max_rows"`
	EDAMaxCols  int    `mapstructure:"eda_max_cols" yaml:"eda_max_cols"`
	ChartWidth  int    `mapstructure:"chart_width" yaml:"chart_width"`
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes c to cfgFile, or to ~/.workgen/config.yaml when cfgFile is empty.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from defaults, the config file and WORKGEN_* env vars.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	c, err := read(cfgFile, true)
	if err != nil {
		return nil, err
	}
	if err := checkThreshold(c.ScoreThreshold); err != nil {
		return nil, err
	}
	if c.SessionDir == "" {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		c.SessionDir = filepath.Join(dir, "session")
	}
	dir, err := utils.ExpandHome(c.SessionDir)
	if err != nil {
		return nil, err
	}
	c.SessionDir = dir
	return c, nil
}

// LoadStored returns the defaults overlaid with the config file only, as
// written by Save. Environment values are ignored and paths are kept as
// written, so the result can be edited and saved back.
func LoadStored(cfgFile string) (*Global, error) {
	return read(cfgFile, false)
}

func read(cfgFile string, env bool) (*Global, error) {
	v := viper.New()
	if env {
		v.SetEnvPrefix(envPrefix)
		v.AutomaticEnv()
	}

	v.SetDefault("score_threshold", 3.0)
	v.SetDefault("summary_sentences", 3)
	v.SetDefault("summarizer", "extractive")
	v.SetDefault("summarizer_model", "openai/gpt-4o-mini")
	v.SetDefault("api_key", "")
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	v.SetDefault("session_dir", "")
	v.SetDefault("preview_rows", 5)
	v.SetDefault("eda_max_rows", 150000)
	v.SetDefault("eda_max_cols", 30)
	v.SetDefault("chart_width", 0)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// checkThreshold rejects thresholds the selector would treat as unset.
func checkThreshold(f float64) error {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("score_threshold must be a positive number, got %v", f)
	}
	return nil
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"score_threshold", "summary_sentences", "summarizer", "summarizer_model", "api_key", "ollama_host",
	"http_timeout_sec", "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms",
	"session_dir", "preview_rows", "eda_max_rows", "eda_max_cols", "chart_width",
}

// Get renders the value of key. The API key is masked.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "score_threshold":
		return strconv.FormatFloat(c.ScoreThreshold, 'g', -1, 64), nil
	case "summary_sentences":
		return strconv.Itoa(c.SummarySentences), nil
	case "summarizer":
		return c.Summarizer, nil
	case "summarizer_model":
		return c.SummarizerModel, nil
	case "api_key":
		return Mask(c.APIKey), nil
	case "ollama_host":
		return c.OllamaHost, nil
	case "http_timeout_sec":
		return strconv.Itoa(c.HTTPTimeoutSec), nil
	case "retry_max_attempts":
		return strconv.Itoa(c.RetryMaxAttempts), nil
	case "retry_base_delay_ms":
		return strconv.Itoa(c.RetryBaseDelayMs), nil
	case "retry_max_delay_ms":
		return strconv.Itoa(c.RetryMaxDelayMs), nil
	case "session_dir":
		return c.SessionDir, nil
	case "preview_rows":
		return strconv.Itoa(c.PreviewRows), nil
	case "eda_max_rows":
		return strconv.Itoa(c.EDAMaxRows), nil
	case "eda_max_cols":
		return strconv.Itoa(c.EDAMaxCols), nil
	case "chart_width":
		return strconv.Itoa(c.ChartWidth), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set validates val and assigns it to key.
func (c *Global) Set(key, val string) error {
	intField := map[string]*int{
		"summary_sentences":   &c.SummarySentences,
		"http_timeout_sec":    &c.HTTPTimeoutSec,
		"retry_max_attempts":  &c.RetryMaxAttempts,
		"retry_base_delay_ms": &c.RetryBaseDelayMs,
		"retry_max_delay_ms":  &c.RetryMaxDelayMs,
		"preview_rows":        &c.PreviewRows,
		"eda_max_rows":        &c.EDAMaxRows,
		"eda_max_cols":        &c.EDAMaxCols,
		"chart_width":         &c.ChartWidth,
	}
	if p, ok := intField[key]; ok {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid non-negative int for %s: %v", key, val)
		}
		if key == "summary_sentences" && i == 0 {
			return fmt.Errorf("summary_sentences must be at least 1")
		}
		*p = i
		return nil
	}
	switch key {
	case "score_threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for score_threshold: %w", err)
		}
		if err := checkThreshold(f); err != nil {
			return err
		}
		c.ScoreThreshold = f
	case "summarizer":
		switch v := strings.ToLower(val); v {
		case "extractive", "openrouter", "ollama":
			c.Summarizer = v
		case "local":
			c.Summarizer = "ollama"
		default:
			return fmt.Errorf("invalid summarizer: %s (use extractive, openrouter or ollama)", val)
		}
	case "summarizer_model":
		c.SummarizerModel = val
	case "api_key":
		c.APIKey = val
	case "ollama_host":
		c.OllamaHost = val
	case "session_dir":
		c.SessionDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// HTTPTimeout returns the configured HTTP timeout.
func (c *Global) HTTPTimeout() time.Duration { return time.Duration(c.HTTPTimeoutSec) * time.Second }

// RetryBaseDelay returns the configured base backoff.
func (c *Global) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond
}

// RetryMaxDelay returns the configured backoff cap.
func (c *Global) RetryMaxDelay() time.Duration {
	return time.Duration(c.RetryMaxDelayMs) * time.Millisecond
}

// Mask hides all but the ends of a secret.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
