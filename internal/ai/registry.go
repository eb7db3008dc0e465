package ai

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Factory builds a Runtime from Config.
type Factory func(Config) Runtime

// Config carries the knobs shared by all runtimes.
type Config struct {
	HTTPTimeout time.Duration
	RetryMax    int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// OpenRouter
	APIKey  string
	BaseURL string
	// Ollama
	Host string

	Logger *zap.Logger
}

var factories = map[string]Factory{}

// Register binds a provider name to its factory.
func Register(name string, f Factory) { factories[name] = f }

// New creates the runtime registered under provider.
func New(provider string, cfg Config) (Runtime, error) {
	f, ok := factories[provider]
	if !ok {
		return nil, fmt.Errorf("unknown ai provider %q (registered: %v)", provider, Providers())
	}
	return f(cfg), nil
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(ProviderOpenRouter, func(c Config) Runtime { return NewClient(c) })
	Register(ProviderOllama, func(c Config) Runtime { return NewOllamaClient(c) })
}

func timeoutOr(d time.Duration) time.Duration {
	if d <= 0 {
		return 60 * time.Second
	}
	return d
}
