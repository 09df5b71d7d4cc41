package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/hairswap/internal/batch"
	"github.com/lehigh-university-libraries/hairswap/internal/relay"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	var jobsPath string
	var outputDir string
	var concurrency int
	var provider string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run hairstyle swaps for every job in a parquet or jsonl file",
		Long: `Runs one swap per job. Each job has a subject_path (local photo), a
style_url and an optional id. Generated images are written as <id>.png in the
output directory together with a batch-<timestamp>.yaml report.`,
		Example: `  # Two swaps at a time from a JSONL file
  hairswap batch --jobs jobs.jsonl --output ./swaps

  # Parquet input with more concurrency
  hairswap batch --jobs jobs.parquet --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(jobsPath); os.IsNotExist(err) {
				return fmt.Errorf("jobs file not found: %s", jobsPath)
			}

			jobs, err := batch.NewLoader(jobsPath).Load()
			if err != nil {
				return fmt.Errorf("failed to load jobs: %w", err)
			}
			slog.Info("Loaded jobs", "count", len(jobs))

			r, cfg, err := buildRelay(provider, nil)
			if err != nil {
				return err
			}

			runner := &batch.Runner{
				Swapper:     r,
				OutputDir:   outputDir,
				Concurrency: concurrency,
			}
			results, err := runner.Run(cmd.Context(), jobs)
			if err != nil {
				return err
			}

			reportPath, err := batch.SaveReport(outputDir, batch.ReportConfig{
				Provider:    cfg.Provider,
				Model:       cfg.Model,
				Prompt:      relay.SwapPrompt,
				JobsPath:    jobsPath,
				Concurrency: concurrency,
			}, results)
			if err != nil {
				return err
			}

			summary := batch.Summarize(results)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nBatch complete!\n")
			fmt.Fprintf(out, "  Succeeded: %d\n", summary.Succeeded)
			fmt.Fprintf(out, "  Failed: %d\n", summary.Failed)
			for kind, n := range summary.ByKind {
				fmt.Fprintf(out, "    %s: %d\n", kind, n)
			}
			fmt.Fprintf(out, "  Report: %s\n", reportPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&jobsPath, "jobs", "", "Path to parquet or jsonl jobs file (required)")
	cmd.Flags().StringVar(&outputDir, "output", "./swaps", "Output directory for images and the report")
	cmd.Flags().IntVar(&concurrency, "concurrency", batch.DefaultConcurrency, "Number of swaps to run at once")
	cmd.Flags().StringVar(&provider, "provider", "", "Image editor (openai, openai-json, gemini); defaults to $SWAP_PROVIDER")
	_ = cmd.MarkFlagRequired("jobs")

	return cmd
}
