package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/hairswap/internal/handlers"
	"github.com/lehigh-university-libraries/hairswap/internal/metrics"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	var provider string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the hairstyle swap HTTP service",
		Long: `Starts the hairstyle swap relay on the specified port.

POST /tryon takes a multipart form with a user_photo file and a style_url
field and answers with {"image": "<base64 PNG>"}. The API key for the
selected provider must be set or the server refuses to start.`,
		Example: `  # Start server on default port 8080
  hairswap serve

  # Use the JSON request variant on a custom port
  hairswap serve --port 3000 --provider openai-json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := metrics.New()
			r, cfg, err := buildRelay(provider, m)
			if err != nil {
				return err
			}

			handler := handlers.New(r, m, cfg.MaxImageBytes)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				// Must outlast the reference fetch plus the synthesis call
				WriteTimeout: cfg.FetchTimeout + cfg.SynthesisTimeout + 30*time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Hairswap relay available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to listen on")
	cmd.Flags().StringVar(&provider, "provider", "", "Image editor (openai, openai-json, gemini); defaults to $SWAP_PROVIDER")

	return cmd
}
