package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lehigh-university-libraries/hairswap/internal/models"
)

// Routes wires every endpoint onto a gorilla/mux router
func (h *Handler) Routes() http.Handler {
	router := mux.NewRouter()
	router.Use(withRequestID)

	router.HandleFunc("/", h.HandleHealth).Methods(http.MethodGet)
	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	}).Methods(http.MethodGet)
	router.HandleFunc("/tryon", h.HandleTryOn).Methods(http.MethodPost)
	if h.metrics != nil {
		router.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	}

	return router
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}
