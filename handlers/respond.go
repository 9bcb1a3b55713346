package handlers

import (
	"encoding/json"
	"net/http"
)

// M is the response payload shape. Every response carries the shared
// envelope fields success and message.
type M map[string]interface{}

func respondOK(w http.ResponseWriter, status int, message string, extra M) {
	payload := M{"success": true, "message": message}
	for k, v := range extra {
		payload[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(M{"success": false, "message": message})
}
