package config

import (
	"testing"
	"time"

	"github.com/lehigh-university-libraries/hairswap/internal/gemini"
	"github.com/lehigh-university-libraries/hairswap/internal/images"
	"github.com/lehigh-university-libraries/hairswap/internal/openai"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "SWAP_PROVIDER",
		"FETCH_TIMEOUT", "SYNTHESIS_TIMEOUT", "MAX_IMAGE_BYTES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ProviderOpenAI, cfg.Provider)
	require.Equal(t, openai.DefaultModel, cfg.Model)
	require.Equal(t, openai.DefaultBaseURL, cfg.OpenAIBaseURL)
	require.Equal(t, images.DefaultTimeout, cfg.FetchTimeout)
	require.Equal(t, 180*time.Second, cfg.SynthesisTimeout)
	require.Equal(t, int64(images.DefaultMaxBytes), cfg.MaxImageBytes)
	require.Equal(t, "openai", cfg.Editor().Name())
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.ErrorContains(t, err, "OPENAI_API_KEY")

	_, err = Load(ProviderGemini)
	require.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("SWAP_PROVIDER", ProviderOpenAI)
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("MAX_IMAGE_BYTES", "2048")

	cfg, err := Load(ProviderGemini)
	require.NoError(t, err)
	require.Equal(t, ProviderGemini, cfg.Provider)
	require.Equal(t, gemini.DefaultModel, cfg.Model)
	require.Equal(t, 5*time.Second, cfg.FetchTimeout)
	require.Equal(t, int64(2048), cfg.MaxImageBytes)
	require.Equal(t, "gemini", cfg.Editor().Name())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{"unknown provider", map[string]string{"SWAP_PROVIDER": "dalle"}, "unsupported provider"},
		{"bad timeout", map[string]string{"FETCH_TIMEOUT": "soon"}, "FETCH_TIMEOUT"},
		{"negative timeout", map[string]string{"SYNTHESIS_TIMEOUT": "-1s"}, "SYNTHESIS_TIMEOUT"},
		{"bad max bytes", map[string]string{"MAX_IMAGE_BYTES": "lots"}, "MAX_IMAGE_BYTES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("OPENAI_API_KEY", "sk-test")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestEditor_JSONVariant(t *testing.T) {
	cfg := Config{Provider: ProviderOpenAIJSON, OpenAIAPIKey: "k"}
	require.Equal(t, "openai-json", cfg.Editor().Name())
}
