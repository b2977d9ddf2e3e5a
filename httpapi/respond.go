package httpapi

import (
	"encoding/json"
	"net/http"
)

// Client-visible failure bodies. One generic credential message for every
// 401 so the API is not an oracle for which check failed.
const (
	msgInvalidSession   = "invalid or expired session"
	msgStoreUnavailable = "service temporarily unavailable, retry later"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
