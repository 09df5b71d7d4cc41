package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// DefaultMaxBytes caps both uploaded and fetched images (10MB)
const DefaultMaxBytes = 10 * 1024 * 1024

var (
	ErrEmpty    = errors.New("image is empty")
	ErrTooLarge = errors.New("image too large")
)

// Info describes a decoded image header
type Info struct {
	Format      string
	ContentType string
	Width       int
	Height      int
}

// Extension returns the file extension conventionally used for the format.
func (i Info) Extension() string {
	if i.Format == "jpeg" {
		return ".jpg"
	}
	return "." + i.Format
}

// Image is an in-memory image together with its header info
type Image struct {
	Info
	Data []byte
}

// Inspect validates data as a supported image no larger than maxBytes.
// Only formats the synthesis APIs accept (JPEG, PNG, WebP) are registered.
// maxBytes <= 0 means DefaultMaxBytes.
func Inspect(data []byte, maxBytes int64) (*Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (max %d bytes)", ErrTooLarge, maxBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported image format: %w", err)
	}

	return &Image{
		Info: Info{
			Format:      format,
			ContentType: "image/" + format,
			Width:       cfg.Width,
			Height:      cfg.Height,
		},
		Data: data,
	}, nil
}
