// Package httpapi holds the helpers shared by every HTTP-facing service:
// JSON/problem response writers, the domain error mapping and the bearer
// token middleware.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"labourline/internal/domain"
)

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteProblem writes a simplified problem+json error body.
func WriteProblem(w http.ResponseWriter, code int, typ, detail string) {
	WriteJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

// WriteError maps the domain error taxonomy onto HTTP problem responses.
// Conflicts carry an "already taken" style detail so clients can show the
// right message instead of a generic failure.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		WriteProblem(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrConflict):
		WriteProblem(w, http.StatusConflict, "conflict", "the work item is no longer in the expected state (already taken or finished)")
	case errors.Is(err, domain.ErrNotFound):
		WriteProblem(w, http.StatusNotFound, "not_found", "referenced record does not exist")
	case errors.Is(err, domain.ErrInactive):
		// A lagging client is not punished for late samples.
		WriteJSON(w, http.StatusAccepted, map[string]any{"dropped": true, "reason": "tracking stopped"})
	case errors.Is(err, domain.ErrUnknownDistance):
		WriteProblem(w, http.StatusUnprocessableEntity, "unknown_location", "distance cannot be computed")
	default:
		WriteProblem(w, http.StatusServiceUnavailable, "db_error", "a backing store is unavailable")
	}
}
