package cmd

import (
	"log/slog"

	"github.com/lehigh-university-libraries/hairswap/internal/config"
	"github.com/lehigh-university-libraries/hairswap/internal/images"
	"github.com/lehigh-university-libraries/hairswap/internal/metrics"
	"github.com/lehigh-university-libraries/hairswap/internal/relay"
)

// buildRelay loads the configuration and assembles a relay from it
func buildRelay(provider string, m *metrics.Metrics) (*relay.Relay, config.Config, error) {
	cfg, err := config.Load(provider)
	if err != nil {
		return nil, config.Config{}, err
	}

	editor := cfg.Editor()
	slog.Info("Using image editor", "provider", editor.Name(), "model", cfg.Model)

	r := relay.New(
		images.NewFetcher(cfg.FetchTimeout, cfg.MaxImageBytes),
		editor,
		relay.WithModel(cfg.Model),
		relay.WithMaxBytes(cfg.MaxImageBytes),
		relay.WithMetrics(m),
	)
	return r, cfg, nil
}
