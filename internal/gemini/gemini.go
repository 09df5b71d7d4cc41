package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/hairswap/internal/failure"
	"github.com/lehigh-university-libraries/hairswap/internal/providers"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	DefaultModel   = "gemini-2.5-flash-image"
	DefaultTimeout = 180 * time.Second
)

// Gemini is an image editor backed by Google Gemini
type Gemini struct {
	apiKey  string
	timeout time.Duration
	opts    []option.ClientOption
}

// New returns a new Gemini editor. Extra client options are appended after the API key.
func New(apiKey string, timeout time.Duration, opts ...option.ClientOption) *Gemini {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gemini{
		apiKey:  apiKey,
		timeout: timeout,
		opts:    opts,
	}
}

// Name implements providers.Editor
func (g *Gemini) Name() string {
	return "gemini"
}

// EditImage asks Gemini for an edited image and returns the first inline image it produces
func (g *Gemini) EditImage(ctx context.Context, req providers.EditRequest) ([]byte, error) {
	const op = "image synthesis request failed"

	if g.apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable not set")
	}
	if len(req.Images) == 0 {
		return nil, errors.New("at least one image is required")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	modelName := req.Model
	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)

	parts := []genai.Part{genai.Text(req.Prompt)}
	for _, img := range req.Images {
		parts = append(parts, genai.Blob{MIMEType: img.ContentType, Data: img.Data})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			body := apiErr.Body
			if body == "" {
				body = apiErr.Message
			}
			return nil, failure.Upstream(op, apiErr.Code, []byte(body))
		}
		return nil, failure.Transport(op, fmt.Errorf("failed to generate content: %w", err))
	}

	return firstImage(resp)
}

func firstImage(resp *genai.GenerateContentResponse) ([]byte, error) {
	const op = "image synthesis request failed"

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, failure.Malformed(op, errors.New("no candidates returned from Gemini"))
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, failure.Malformed(op, errors.New("empty content returned from Gemini"))
	}

	for _, part := range candidate.Content.Parts {
		if blob, ok := part.(genai.Blob); ok && strings.HasPrefix(blob.MIMEType, "image/") && len(blob.Data) > 0 {
			return blob.Data, nil
		}
	}

	return nil, failure.Malformed(op, errors.New("no image returned from Gemini"))
}
