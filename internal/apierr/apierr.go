// Package apierr holds the JSON error-response shapes for the §7 error
// taxonomy, shared across the HTTP surface.
package apierr

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Detail is one {path, message} validation failure entry.
type Detail struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// WriteValidationFailed writes the 400 response for schema violations
// (§7 kind 3): the union of every offending field across the request.
func WriteValidationFailed(w http.ResponseWriter, details []Detail) {
	WriteJSON(w, http.StatusBadRequest, map[string]any{
		"error":   "Validation failed",
		"details": details,
	})
}

// WriteMalformedJSON writes the 400 response for a body that failed to
// parse as JSON at all (§7 kind 2): a single-entry details list.
func WriteMalformedJSON(w http.ResponseWriter, message string) {
	WriteValidationFailed(w, []Detail{{Path: "body", Message: message}})
}

// WriteSimple writes a terse `{"error": message}` response, used for bad
// query parameters (§7 kind 4).
func WriteSimple(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteInternal writes the 500 response for an unexpected internal
// failure (§7 kind 7).
func WriteInternal(w http.ResponseWriter, err error) {
	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "Internal server error",
		"message": err.Error(),
	})
}
