package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/crucial707/blogspace/internal/middleware"
	"github.com/crucial707/blogspace/internal/models"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// JSONValidationError sends "error" plus per-field "details".
func JSONValidationError(w http.ResponseWriter, message string, details map[string]string, status int) {
	out := map[string]any{"error": message}
	if len(details) > 0 {
		out["details"] = details
	}
	writeJSON(w, status, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into dst. It writes the error response
// itself and reports whether the handler should continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		JSONError(w, "request body too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, io.EOF):
		JSONError(w, "request body required", http.StatusBadRequest)
	default:
		JSONError(w, "invalid JSON", http.StatusBadRequest)
	}
	return false
}

// requireUser returns the authenticated user id, or writes 401.
func requireUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
	}
	return id, ok
}

// writeServiceError maps service errors to status codes. Expected errors are
// returned verbatim; anything else is logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		JSONValidationError(w, "validation failed", ve.Fields, http.StatusBadRequest)
	case errors.Is(err, models.ErrProvisioningFailed):
		logError(r, "blog provisioning failed", err)
		JSONError(w, "failed to create blog", http.StatusInternalServerError)
	case errors.Is(err, models.ErrInvalidCredential):
		JSONError(w, "current password is incorrect", http.StatusBadRequest)
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrValidation):
		JSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrUnauthorized):
		JSONError(w, "invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, models.ErrForbidden):
		JSONError(w, "access denied", http.StatusForbidden)
	case errors.Is(err, models.ErrNotFound):
		JSONError(w, err.Error(), http.StatusNotFound)
	default:
		logError(r, "request failed", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

func logError(r *http.Request, msg string, err error) {
	attrs := []any{
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	}
	if id, ok := middleware.GetUserID(r.Context()); ok {
		attrs = append(attrs, "user_id", id)
	}
	slog.ErrorContext(r.Context(), msg, attrs...)
}
