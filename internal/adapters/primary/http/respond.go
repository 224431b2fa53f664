package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jupiterclapton/flicknet/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError mappe les sentinelles domaine vers les codes HTTP.
// NotFound -> 404, requête incorrigible -> 400, échec de persistance -> 500
// (retryable côté client).
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrFilmNotFound),
		errors.Is(err, domain.ErrReviewNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSelfRelation),
		errors.Is(err, domain.ErrInvalidRating):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}
