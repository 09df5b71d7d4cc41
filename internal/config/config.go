package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lehigh-university-libraries/hairswap/internal/gemini"
	"github.com/lehigh-university-libraries/hairswap/internal/images"
	"github.com/lehigh-university-libraries/hairswap/internal/openai"
	"github.com/lehigh-university-libraries/hairswap/internal/providers"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenAIJSON = "openai-json"
	ProviderGemini     = "gemini"
)

// Config is read once at startup and passed to whatever needs it
type Config struct {
	Provider string
	Model    string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string

	FetchTimeout     time.Duration
	SynthesisTimeout time.Duration
	MaxImageBytes    int64
}

// Load reads the configuration from the environment. Provider may be
// overridden by the caller (e.g. a --provider flag); an empty override
// falls back to SWAP_PROVIDER.
func Load(providerOverride string) (Config, error) {
	cfg := Config{
		Provider:      providerOverride,
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getenv("OPENAI_BASE_URL", openai.DefaultBaseURL),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
	}
	if cfg.Provider == "" {
		cfg.Provider = getenv("SWAP_PROVIDER", ProviderOpenAI)
	}

	var err error
	if cfg.FetchTimeout, err = durationEnv("FETCH_TIMEOUT", images.DefaultTimeout); err != nil {
		return Config{}, err
	}
	if cfg.SynthesisTimeout, err = durationEnv("SYNTHESIS_TIMEOUT", openai.DefaultTimeout); err != nil {
		return Config{}, err
	}
	if cfg.MaxImageBytes, err = int64Env("MAX_IMAGE_BYTES", images.DefaultMaxBytes); err != nil {
		return Config{}, err
	}

	switch cfg.Provider {
	case ProviderOpenAI, ProviderOpenAIJSON:
		if cfg.OpenAIAPIKey == "" {
			return Config{}, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		cfg.Model = getenv("OPENAI_MODEL", openai.DefaultModel)
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return Config{}, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
		cfg.Model = getenv("GEMINI_MODEL", gemini.DefaultModel)
	default:
		return Config{}, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}

	return cfg, nil
}

// Editor builds the synthesis adapter selected by the configuration
func (c Config) Editor() providers.Editor {
	switch c.Provider {
	case ProviderOpenAIJSON:
		return openai.NewJSON(c.openAI())
	case ProviderGemini:
		return gemini.New(c.GeminiAPIKey, c.SynthesisTimeout)
	default:
		return openai.NewMultipart(c.openAI())
	}
}

func (c Config) openAI() openai.Config {
	return openai.Config{
		APIKey:  c.OpenAIAPIKey,
		BaseURL: c.OpenAIBaseURL,
		Timeout: c.SynthesisTimeout,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func int64Env(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}
