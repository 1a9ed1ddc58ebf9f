package utils

import (
	"encoding/json"
	"net/http"
	"time"
)

type APIError struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// WriteError sends the shared JSON error envelope. The message is what the
// client surfaces in its notification, so it must already be user-readable.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIError{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().UTC(),
	})
}

// WriteJSON sends data with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
