// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/microshop/microshop/internal/handler/dto"
	"github.com/microshop/microshop/internal/service"
)

// Handler serves the fallback routes shared by both services.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"error": "resource not found",
	}
	writeJSON(w, http.StatusNotFound, response)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"error": "method not allowed",
	}
	writeJSON(w, http.StatusMethodNotAllowed, response)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Debug("write_response_failed", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeJSON decodes the request body into dst. An empty body leaves dst
// untouched so required-field validation reports the missing fields.
// Anything after the first JSON value is rejected.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		if err = dec.Decode(&struct{}{}); err == nil {
			err = errTrailingData
		}
	}
	if errors.Is(err, io.EOF) {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large")
		return false
	}

	writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
	return false
}

// handleServiceError maps service errors to HTTP responses.
// notFound is the message used for missing records of the route's resource.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error, notFound string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrInvalidID):
		writeError(w, http.StatusNotFound, "NOT_FOUND", notFound)
	case errors.Is(err, service.ErrStoreUnavailable):
		logger.Error("store_error", "error", err)
		writeError(w, http.StatusInternalServerError, "STORE_UNAVAILABLE", "store unavailable")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}
