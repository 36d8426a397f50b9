package handlers

import (
	"encoding/json"
	"net/http"
)

// Client-facing messages. The 500 message is deliberately generic; collaborator
// error detail stays in the server log.
const (
	ErrMessageInternal      = "Internal server error"
	ErrMessageMissingFields = "Missing required fields"
	ErrMessageBadCredential = "Invalid username or password"
)

// JSONError sends a JSON error response with a single "message" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// JSONResponse sends an arbitrary payload with the given status.
func JSONResponse(w http.ResponseWriter, payload interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
