package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/hairswap/internal/failure"
	"github.com/lehigh-university-libraries/hairswap/internal/metrics"
	"github.com/lehigh-university-libraries/hairswap/internal/models"
	"github.com/lehigh-university-libraries/hairswap/internal/relay"
)

type ctxKey struct{}

type Handler struct {
	relay    *relay.Relay
	metrics  *metrics.Metrics
	maxBytes int64
}

func New(r *relay.Relay, m *metrics.Metrics, maxBytes int64) *Handler {
	return &Handler{
		relay:    r,
		metrics:  m,
		maxBytes: maxBytes,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := failure.HTTPStatus(err)
	kind := failure.KindOf(err)
	slog.Error("Hairstyle swap failed",
		"request_id", RequestID(r.Context()),
		"kind", kind,
		"status", status,
		"err", err,
	)
	h.writeJSON(w, status, models.ErrorResponse{
		Detail: err.Error(),
		Kind:   string(kind),
	})
}

// RequestID returns the id assigned to the request by withRequestID
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}
