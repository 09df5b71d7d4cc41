package batch

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/hairswap/internal/failure"
	"github.com/lehigh-university-libraries/hairswap/internal/relay"
)

// DefaultConcurrency keeps batch runs polite towards the synthesis API
const DefaultConcurrency = 2

// Swapper is the subset of the relay a batch run needs
type Swapper interface {
	Swap(ctx context.Context, in relay.SwapInput) (relay.SwapResult, error)
}

// Runner executes jobs through a Swapper and writes the images to OutputDir
type Runner struct {
	Swapper     Swapper
	OutputDir   string
	Concurrency int
}

// Run processes every job and returns one Result per job, in job order.
// A failing job does not stop the others.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	if err := validateIDs(jobs); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(jobs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Processing job", "id", job.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(jobs)))
			results[idx] = r.runJob(ctx, job)
		}(i, job)
	}

	wg.Wait()

	return results, nil
}

func (r *Runner) runJob(ctx context.Context, job Job) Result {
	start := time.Now()
	result := Result{
		ID:          job.ID,
		SubjectPath: job.SubjectPath,
		StyleURL:    job.StyleURL,
	}
	fail := func(err error) Result {
		result.Kind = string(failure.KindOf(err))
		result.Error = err.Error()
		result.Duration = time.Since(start)
		slog.Warn("Job failed", "id", job.ID, "kind", result.Kind, "err", err)
		return result
	}

	subject, err := os.ReadFile(job.SubjectPath)
	if err != nil {
		return fail(failure.Input("failed to read subject image", err))
	}

	swap, err := r.Swapper.Swap(ctx, relay.SwapInput{
		Subject:      subject,
		ReferenceURL: job.StyleURL,
	})
	if err != nil {
		return fail(err)
	}

	data, err := base64.StdEncoding.DecodeString(swap.Image)
	if err != nil {
		return fail(fmt.Errorf("failed to decode image: %w", err))
	}

	outputPath := filepath.Join(r.OutputDir, job.ID+".png")
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fail(fmt.Errorf("failed to write image: %w", err))
	}

	result.OutputPath = outputPath
	result.Bytes = len(data)
	result.Duration = time.Since(start)
	return result
}
