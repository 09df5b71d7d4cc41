package cmd

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/hairswap/internal/relay"
	"github.com/spf13/cobra"
)

func newSwapCmd() *cobra.Command {
	var photo string
	var styleURL string
	var output string
	var provider string

	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Run a single hairstyle swap from the command line",
		Example: `  hairswap swap --photo me.jpg --style-url https://example.com/bob.jpg --out me-bob.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, err := os.ReadFile(photo)
			if err != nil {
				return fmt.Errorf("failed to read photo: %w", err)
			}

			r, _, err := buildRelay(provider, nil)
			if err != nil {
				return err
			}

			result, err := r.Swap(cmd.Context(), relay.SwapInput{
				Subject:      subject,
				ReferenceURL: styleURL,
			})
			if err != nil {
				return err
			}

			data, err := base64.StdEncoding.DecodeString(result.Image)
			if err != nil {
				return fmt.Errorf("failed to decode image: %w", err)
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d bytes to %s\n", len(data), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&photo, "photo", "", "Path to the photo of the person (required)")
	cmd.Flags().StringVar(&styleURL, "style-url", "", "URL of the reference hairstyle image (required)")
	cmd.Flags().StringVarP(&output, "out", "o", "result.png", "Where to write the generated PNG")
	cmd.Flags().StringVar(&provider, "provider", "", "Image editor (openai, openai-json, gemini); defaults to $SWAP_PROVIDER")
	_ = cmd.MarkFlagRequired("photo")
	_ = cmd.MarkFlagRequired("style-url")

	return cmd
}
