package web

// errors.go provides the JSON response helpers shared by all handlers.
//
// Per-row import failures never surface here; they are folded into the
// import result's counters. Only structurally invalid requests and
// unanticipated failures become error responses.

import (
	"encoding/json"
	"net/http"

	"github.com/sheetdrop/sheetdrop/internal/logging"
)

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode", "error", err)
	}
}

// writeMessage writes a `{message}` body, the shape used for client
// errors.
func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, map[string]string{"message": message})
}

// writeServerError writes a `{message, error}` body and logs the
// underlying failure.
func writeServerError(w http.ResponseWriter, r *http.Request, message string, err error) {
	logging.FromContext(r.Context()).Error("request failed",
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, r, http.StatusInternalServerError, map[string]string{
		"message": message,
		"error":   err.Error(),
	})
}
