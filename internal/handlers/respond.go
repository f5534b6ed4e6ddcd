// Package handlers implements the HTTP resource routers: auth, posts, and
// categories. Every response uses the same JSON envelope so clients can
// branch on a single success flag.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the uniform response wrapper: {success, message?, data|errors}.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// respond serializes v as JSON with the given status code.
func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondData wraps data in a success envelope.
func respondData(w http.ResponseWriter, status int, data any) {
	respond(w, status, envelope{Success: true, Data: data})
}

// respondMessage sends a success envelope with only a message.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respond(w, status, envelope{Success: true, Message: message})
}

// respondError sends a failure envelope with the given message.
func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, envelope{Success: false, Message: message})
}

// respondValidation sends the itemized 400 validation envelope.
func respondValidation(w http.ResponseWriter, errs []string) {
	respond(w, http.StatusBadRequest, envelope{
		Success: false,
		Message: "Validation error",
		Errors:  errs,
	})
}

// respondServerError logs the underlying error and sends the generic 500
// body. Details are never exposed to the caller.
func respondServerError(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "error", err)
	respondError(w, http.StatusInternalServerError, "Server error")
}
