package providers

import (
	"context"
)

// Image is one input image handed to an editor
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EditRequest represents a prompt-guided edit over one or more images.
// The first image is the one being edited; the rest are references.
type EditRequest struct {
	Model  string
	Prompt string
	Images []Image
}

// Editor defines the interface for an image synthesis provider
type Editor interface {
	// EditImage returns the raw bytes of the first generated image
	EditImage(ctx context.Context, req EditRequest) ([]byte, error)
	// Name identifies the provider in logs and metrics
	Name() string
}
