// Package response writes JSON bodies and maps service errors onto status codes.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/swadseva/ordering/internal/service/errs"
)

const internalErrorMessage = "Internal server error"

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Error sending response", "error", err)
	}
}

// Message writes {"error": message} with the given status.
func Message(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, errorBody{Error: message})
}

// StatusOf maps a service error onto an HTTP status code.
func StatusOf(err error) int {
	var (
		validationErr *errs.ValidationError
		notFoundErr   *errs.NotFoundError
		conflictErr   *errs.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes a service error. Server errors are logged and hidden behind a generic message.
func Error(w http.ResponseWriter, r *http.Request, logMessage string, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), logMessage, "error", err)
		Message(w, r, status, internalErrorMessage)

		return
	}

	slog.InfoContext(r.Context(), logMessage, "error", err, "status", status)
	Message(w, r, status, err.Error())
}
