package middlewares

import (
	"encoding/json"
	"net/http"
)

// WriteError writes {"error": message} with the given status.
// Middlewares answer with the same body shape as the handlers.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
