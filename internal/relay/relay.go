package relay

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/hairswap/internal/failure"
	"github.com/lehigh-university-libraries/hairswap/internal/images"
	"github.com/lehigh-university-libraries/hairswap/internal/metrics"
	"github.com/lehigh-university-libraries/hairswap/internal/providers"
)

// SwapPrompt is the fixed instruction sent with every swap
const SwapPrompt = "Replace ONLY the hairstyle on the person in the first image " +
	"to match the hairstyle in the second image. " +
	"Keep face identity, skin tone, background unchanged. " +
	"Photorealistic, clean blending."

// Fetcher downloads the reference image
type Fetcher interface {
	Fetch(ctx context.Context, imageURL string) (*images.Image, error)
}

// SwapInput is everything a caller supplies for one swap
type SwapInput struct {
	Subject      []byte
	ReferenceURL string
}

// SwapResult carries the generated image
type SwapResult struct {
	Image string // base64 encoded
	Bytes int
}

// Relay turns a subject photo and a reference URL into a hairstyle swap
type Relay struct {
	fetcher  Fetcher
	editor   providers.Editor
	model    string
	maxBytes int64
	metrics  *metrics.Metrics
}

// Option customizes a Relay
type Option func(*Relay)

// WithModel overrides the provider's default model
func WithModel(model string) Option {
	return func(r *Relay) { r.model = model }
}

// WithMaxBytes caps the subject image size
func WithMaxBytes(n int64) Option {
	return func(r *Relay) { r.maxBytes = n }
}

// WithMetrics records swap outcomes and upstream latency
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Relay) { r.metrics = m }
}

// New creates a relay over the given fetcher and editor
func New(fetcher Fetcher, editor providers.Editor, opts ...Option) *Relay {
	r := &Relay{
		fetcher:  fetcher,
		editor:   editor,
		maxBytes: images.DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Validate checks the caller's input without making any outbound call
func (r *Relay) Validate(in SwapInput) (*images.Image, error) {
	subject, err := images.Inspect(in.Subject, r.maxBytes)
	if err != nil {
		return nil, failure.Input("invalid user_photo", err)
	}
	if _, err := images.ValidateURL(in.ReferenceURL); err != nil {
		return nil, failure.Input("invalid style_url", err)
	}
	return subject, nil
}

// Swap validates the input, fetches the reference image and asks the
// editor for a hairstyle swap. It makes at most one call to each remote.
func (r *Relay) Swap(ctx context.Context, in SwapInput) (result SwapResult, err error) {
	defer func() {
		r.metrics.ObserveSwap(string(failure.KindOf(err)))
	}()

	subject, err := r.Validate(in)
	if err != nil {
		return SwapResult{}, err
	}

	reference, err := r.fetcher.Fetch(ctx, in.ReferenceURL)
	if err != nil {
		return SwapResult{}, err
	}

	req := providers.EditRequest{
		Model:  r.model,
		Prompt: SwapPrompt,
		Images: []providers.Image{
			{Filename: "user" + subject.Extension(), ContentType: subject.ContentType, Data: subject.Data},
			{Filename: "style" + reference.Extension(), ContentType: reference.ContentType, Data: reference.Data},
		},
	}

	start := time.Now()
	out, err := r.editor.EditImage(ctx, req)
	r.metrics.ObserveUpstream(r.editor.Name(), time.Since(start))
	if err != nil {
		return SwapResult{}, err
	}

	slog.Info("Hairstyle swap completed", "provider", r.editor.Name(), "bytes", len(out), "duration", time.Since(start))

	return SwapResult{
		Image: base64.StdEncoding.EncodeToString(out),
		Bytes: len(out),
	}, nil
}
