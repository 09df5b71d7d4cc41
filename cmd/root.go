package cmd

import (
	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/hairswap/internal/logging"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "hairswap",
		Short: "Hairstyle swap relay backed by image-editing APIs",
		Long: `Hairswap takes a photo of a person and a reference image of a hairstyle
and asks an image-editing API to put that hairstyle on the person.

It runs as an HTTP service (serve), as a one-off command (swap), or over a
file of jobs (batch).`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			logging.InitLogger(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSwapCmd())
	cmd.AddCommand(newBatchCmd())

	return cmd
}
