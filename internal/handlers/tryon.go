package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/hairswap/internal/failure"
	"github.com/lehigh-university-libraries/hairswap/internal/images"
	"github.com/lehigh-university-libraries/hairswap/internal/models"
	"github.com/lehigh-university-libraries/hairswap/internal/relay"
)

// Parts larger than this are spooled to temporary files by net/http
const multipartMemory = 1 << 20

// formOverhead leaves room for the style_url field and multipart framing
const formOverhead = 1 << 20

// HandleTryOn accepts a user_photo upload and a style_url and returns the swapped image
func (h *Handler) HandleTryOn(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.maxBytes
	if maxBytes <= 0 {
		maxBytes = images.DefaultMaxBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formOverhead)

	err := r.ParseMultipartForm(multipartMemory)
	if r.MultipartForm != nil {
		// Spooled parts live in os.TempDir until removed
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				slog.Warn("Failed to remove multipart temp files", "request_id", RequestID(r.Context()), "err", err)
			}
		}()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(w, r, failure.Inputf("failed to read upload", "request body too large (max %d bytes)", tooLarge.Limit))
			return
		}
		h.reject(w, r, failure.Input("failed to parse multipart form", err))
		return
	}

	subject, err := readUserPhoto(r, maxBytes)
	if err != nil {
		h.reject(w, r, err)
		return
	}

	styleURL := r.FormValue("style_url")

	slog.Info("Hairstyle swap requested",
		"request_id", RequestID(r.Context()),
		"subject_bytes", len(subject),
		"style_url", styleURL,
	)

	result, err := h.relay.Swap(r.Context(), relay.SwapInput{
		Subject:      subject,
		ReferenceURL: styleURL,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, models.SwapResponse{Image: result.Image})
}

func readUserPhoto(r *http.Request, maxBytes int64) ([]byte, error) {
	file, _, err := r.FormFile("user_photo")
	if err != nil {
		return nil, failure.Input("user_photo is required", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, failure.Input("failed to read user_photo", err)
	}
	return data, nil
}

// reject answers a request that never reached the relay
func (h *Handler) reject(w http.ResponseWriter, r *http.Request, err error) {
	h.metrics.ObserveSwap(string(failure.KindOf(err)))
	h.writeError(w, r, err)
}
