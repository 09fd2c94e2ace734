// Package utils holds the JSON response helpers shared by all handlers.
package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// FieldError is one entry of a validation error response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes data as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[HTTP] response encode error: %v", err)
	}
}

// Error writes {"error": message} with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// ValidationError writes a 400 whose error field is the list of offending
// fields.
func ValidationError(w http.ResponseWriter, errs []FieldError) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{"error": errs})
}
