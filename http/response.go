package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"sip-calculator/domain"
	"sip-calculator/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes into a buffer first so a failed encode can still
// produce a 500 instead of a half-written body.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Error encoding response", logging.FieldError, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).WarnContext(r.Context(), "Error writing response", logging.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// writeServiceError maps service failures onto status codes. Unexpected
// errors are logged and hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnrepresentable):
		writeError(w, r, http.StatusUnprocessableEntity, "projection is too large to represent")
	default:
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Unexpected service error", logging.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
