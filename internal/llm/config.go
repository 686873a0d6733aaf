package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted by QUIZLINE_LLM_PROVIDER.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures one provider.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is exponential backoff with jitter.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses Anthropic with small, fast models everywhere. Authoring
// a quiz is one long structured reply, so the timeout is generous.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 90 * time.Second,
	}
}

// envOverrides pairs QUIZLINE_ variables with the fields they set.
func (c *Config) envOverrides() map[string]*string {
	return map[string]*string{
		"QUIZLINE_LLM_PROVIDER":       &c.Provider,
		"QUIZLINE_ANTHROPIC_API_KEY":  &c.Anthropic.APIKey,
		"QUIZLINE_ANTHROPIC_MODEL":    &c.Anthropic.Model,
		"QUIZLINE_ANTHROPIC_BASE_URL": &c.Anthropic.BaseURL,
		"QUIZLINE_OPENAI_API_KEY":     &c.OpenAI.APIKey,
		"QUIZLINE_OPENAI_MODEL":       &c.OpenAI.Model,
		"QUIZLINE_OPENAI_BASE_URL":    &c.OpenAI.BaseURL,
		"QUIZLINE_GEMINI_API_KEY":     &c.Gemini.APIKey,
		"QUIZLINE_GEMINI_MODEL":       &c.Gemini.Model,
		"QUIZLINE_OPENROUTER_API_KEY": &c.OpenRouter.APIKey,
		"QUIZLINE_OPENROUTER_MODEL":   &c.OpenRouter.Model,
	}
}

// ConfigFromEnv applies QUIZLINE_* variables over DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for name, field := range cfg.envOverrides() {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
	if v := os.Getenv("QUIZLINE_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

// DiscoverConfig looks for the vendors' own API key variables, in the order
// Anthropic, OpenAI, Gemini, OpenRouter, and returns a config for the first
// one set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Resolve prefers explicit QUIZLINE_ settings and falls back to discovery
// when the configured provider has no key.
func Resolve() (Config, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err == nil {
		return cfg, nil
	} else if os.Getenv("QUIZLINE_LLM_PROVIDER") != "" {
		return Config{}, err
	}
	if found, ok := DiscoverConfig(); ok {
		found.Timeout = cfg.Timeout
		return found, nil
	}
	return Config{}, fmt.Errorf("no LLM API key found: set QUIZLINE_LLM_PROVIDER and its API key, or one of ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY")
}

// Validate reports a missing API key for the selected provider.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "QUIZLINE_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "QUIZLINE_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "QUIZLINE_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "QUIZLINE_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
