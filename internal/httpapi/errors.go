package httpapi

import (
	"encoding/json"
	"net/http"

	"ollamachat/internal/relay"
	"ollamachat/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSON encodes v with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

// chatFailure maps a relay error to the status and in-band chat body.
// Without strict mode every chat outcome is 200.
func chatFailure(err error) (int, types.ChatResponse) {
	status := http.StatusOK
	if strictErrors {
		status = http.StatusBadGateway
		if he, ok := err.(HTTPError); ok {
			status = he.StatusCode()
		}
	}
	return status, types.ChatResponse{Response: relay.Describe(err)}
}

// parseFailure is the body for a chat request that could not be decoded.
func parseFailure(err error) types.ChatResponse {
	return types.ChatResponse{Response: "Error parsing request: " + err.Error()}
}
