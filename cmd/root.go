package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/workgen-cli/internal/ai"
	"github.com/KaramelBytes/workgen-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/workgen-cli/internal/config"
	"github.com/KaramelBytes/workgen-cli/internal/logging"
	"github.com/KaramelBytes/workgen-cli/internal/session"
	"github.com/KaramelBytes/workgen-cli/internal/summarize"
	"github.com/KaramelBytes/workgen-cli/internal/workforce"
)

var (
	cfgFile string
	debug   bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "workgen",
	Short: "WorkGen CLI: workforce analytics from the terminal",
	Long: `WorkGen loads an employee dataset, charts it with short generated insights,
runs an automated exploratory analysis and groups eligible employees into projects.
State is kept in a session directory shared by consecutive invocations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal: loadConfig reads rootCmd's
	// flags, which would otherwise form an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(debug)
		if err != nil {
			return err
		}
		logger = l
		return loadConfig()
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.workgen/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
	logger.Debug("config loaded", zap.String("session_dir", cfg.SessionDir), zap.String("summarizer", cfg.Summarizer))
	return nil
}

// openSession restores the session in the configured directory.
func openSession() (*session.Session, error) {
	s, err := session.Open(cfg.SessionDir, logger)
	if err != nil {
		return nil, err
	}
	s.Selector = workforce.Selector{Threshold: cfg.ScoreThreshold}
	return s, nil
}

func aiConfig() ai.Config {
	return ai.Config{
		HTTPTimeout: cfg.HTTPTimeout(),
		RetryMax:    cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay(),
		MaxDelay:    cfg.RetryMaxDelay(),
		APIKey:      cfg.APIKey,
		Host:        cfg.OllamaHost,
		Logger:      logger,
	}
}

func newSummarizer() (summarize.Summarizer, error) {
	return summarize.New(cfg.Summarizer, cfg.SummarizerModel, aiConfig())
}

func analysisOptions() analysis.Options {
	opt := analysis.DefaultOptions()
	opt.MaxRows = cfg.EDAMaxRows
	opt.MaxCols = cfg.EDAMaxCols
	if cfg.PreviewRows > 0 {
		opt.SampleRows = cfg.PreviewRows
	}
	return opt
}
