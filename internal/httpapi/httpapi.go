package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorResponse is the uniform error payload returned by every service.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the payload served on GET /health by every service.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// WriteJSON serializes data to the response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes the uniform error payload.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// Health returns the standard health handler for a service.
func Health(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    "healthy",
			Service:   service,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
}

// Ready is the static readiness handler used by services without live
// dependency checks.
func Ready(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
