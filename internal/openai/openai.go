package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/hairswap/internal/failure"
	"github.com/lehigh-university-libraries/hairswap/internal/providers"
)

const (
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-image-1.5"
	DefaultTimeout = 180 * time.Second

	editsPath = "/v1/images/edits"
)

// Config holds what both OpenAI adapters need to reach the images API
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type client struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

func newClient(cfg Config) client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return client{
		apiKey: cfg.APIKey,
		url:    base + editsPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Multipart submits edits as multipart/form-data with one repeated "image" part per input.
type Multipart struct {
	client
}

// NewMultipart returns the default OpenAI editor
func NewMultipart(cfg Config) *Multipart {
	return &Multipart{client: newClient(cfg)}
}

// Name implements providers.Editor
func (m *Multipart) Name() string {
	return "openai"
}

// EditImage sends the images and prompt to /v1/images/edits
func (m *Multipart) EditImage(ctx context.Context, req providers.EditRequest) ([]byte, error) {
	if len(req.Images) == 0 {
		return nil, errors.New("at least one image is required")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, img := range req.Images {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, img.Filename))
		header.Set("Content-Type", img.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, fmt.Errorf("failed to write image part: %w", err)
		}
	}

	fields := map[string]string{
		"model":         modelOrDefault(req.Model),
		"prompt":        req.Prompt,
		"n":             "1",
		"output_format": "png",
	}
	for _, key := range []string{"model", "prompt", "n", "output_format"} {
		if err := writer.WriteField(key, fields[key]); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return m.do(ctx, &body, writer.FormDataContentType())
}

// JSON submits edits as a JSON body with base64 data URLs.
type JSON struct {
	client
}

// NewJSON returns the JSON/base64 OpenAI editor
func NewJSON(cfg Config) *JSON {
	return &JSON{client: newClient(cfg)}
}

// Name implements providers.Editor
func (j *JSON) Name() string {
	return "openai-json"
}

type jsonImage struct {
	ImageURL string `json:"image_url"`
}

type jsonEditRequest struct {
	Model        string      `json:"model"`
	Prompt       string      `json:"prompt"`
	Images       []jsonImage `json:"images"`
	N            int         `json:"n"`
	OutputFormat string      `json:"output_format"`
}

// EditImage sends the images and prompt to /v1/images/edits as JSON
func (j *JSON) EditImage(ctx context.Context, req providers.EditRequest) ([]byte, error) {
	if len(req.Images) == 0 {
		return nil, errors.New("at least one image is required")
	}

	payload := jsonEditRequest{
		Model:        modelOrDefault(req.Model),
		Prompt:       req.Prompt,
		Images:       make([]jsonImage, 0, len(req.Images)),
		N:            1,
		OutputFormat: "png",
	}
	for _, img := range req.Images {
		payload.Images = append(payload.Images, jsonImage{
			ImageURL: "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
		})
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	return j.do(ctx, bytes.NewReader(requestBody), "application/json")
}

func (c client) do(ctx context.Context, body io.Reader, contentType string) ([]byte, error) {
	const op = "image synthesis request failed"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, failure.Transport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, failure.MaxBodyExcerpt+1))
		return nil, failure.Upstream(op, resp.StatusCode, respBody)
	}

	var response struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, failure.Malformed(op, fmt.Errorf("failed to decode response body: %w", err))
	}

	if len(response.Data) == 0 || response.Data[0].B64JSON == "" {
		return nil, failure.Malformed(op, errors.New("no image returned from OpenAI"))
	}

	image, err := base64.StdEncoding.DecodeString(response.Data[0].B64JSON)
	if err != nil {
		return nil, failure.Malformed(op, fmt.Errorf("failed to decode b64_json: %w", err))
	}

	return image, nil
}

func modelOrDefault(model string) string {
	if model == "" {
		return DefaultModel
	}
	return model
}
