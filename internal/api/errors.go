package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amrit740/riti-s-cinematic-wish/internal/clock"
	"github.com/amrit740/riti-s-cinematic-wish/internal/effect"
	"github.com/amrit740/riti-s-cinematic-wish/internal/scene"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "conflict"
	ErrCodeInternal    = "internal_error"
	ErrCodeUnavailable = "unavailable"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeConflict writes a 409 error response.
func writeConflict(w http.ResponseWriter, message string) {
	writeError(w, http.StatusConflict, ErrCodeConflict, message)
}

// writeUnavailable writes a 503 error response.
func writeUnavailable(w http.ResponseWriter, message string) {
	writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeExperienceError maps an error from the experience onto a response.
// It reports whether the error was an unexpected one, which callers log.
func writeExperienceError(w http.ResponseWriter, err error, action string) (unexpected bool) {
	switch {
	case errors.Is(err, scene.ErrReplayNotReady):
		writeConflict(w, "replay is only available once the closing scene is reached")
	case errors.Is(err, effect.ErrUnknownEffect):
		writeNotFound(w, err.Error())
	case errors.Is(err, clock.ErrLoopStopped):
		writeUnavailable(w, "experience is shutting down")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeUnavailable(w, "experience did not respond in time")
	default:
		writeInternalError(w, "failed to "+action)
		return true
	}
	return false
}
