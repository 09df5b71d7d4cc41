package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lehigh-university-libraries/hairswap/internal/failure"
)

// DefaultTimeout bounds a single reference image download
const DefaultTimeout = 30 * time.Second

// Fetcher retrieves reference images over HTTP
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a new image fetcher
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		MaxBytes: maxBytes,
	}
}

// ValidateURL checks that raw is an absolute http(s) URL
func ValidateURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("style_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid style_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid style_url %q: must be an absolute http or https URL", raw)
	}
	return u, nil
}

// Fetch downloads the image at imageURL. Anything but a 200 with a
// decodable image body fails the fetch.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) (*Image, error) {
	const op = "failed to fetch reference image"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, failure.Reference(op, 0, err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, failure.Transport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failure.Reference(op, resp.StatusCode, nil)
	}

	// Read one byte past the limit so oversized bodies are detected rather than truncated
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return nil, failure.Transport(op, fmt.Errorf("failed to read image data: %w", err))
	}

	img, err := Inspect(data, f.MaxBytes)
	if err != nil {
		return nil, failure.Reference(op, 0, err)
	}

	slog.Debug("Fetched reference image", "url", imageURL, "format", img.Format, "bytes", len(data), "width", img.Width, "height", img.Height)
	return img, nil
}
