package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response helpers for consistent JSON responses

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondStatus sends a failure response carrying the operation's result
// status tag
func respondStatus(w http.ResponseWriter, httpStatus int, resultStatus string) {
	respondJSON(w, httpStatus, ErrorResponse{Status: resultStatus})
}

// respondOperationError sends the generic error-status response with the
// underlying failure for diagnostic display
func respondOperationError(w http.ResponseWriter, err error) {
	body := ErrorResponse{Status: "error"}
	if err != nil {
		body.Error = err.Error()
	}
	respondJSON(w, http.StatusInternalServerError, body)
}

// unhandledStatus marks a result tag the handler switch does not cover: a
// programming error, surfaced through the recovery middleware.
func unhandledStatus(status any) {
	panic(fmt.Sprintf("unhandled result status: %v", status))
}
