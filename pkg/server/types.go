package server

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	// Possible values: "invalid_request_error", "out_of_order_error",
	// "not_found", "server_error", "gateway_timeout".
	Type string `json:"type"`
}

// Error type constants.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeOutOfOrder     = "out_of_order_error"
	ErrorTypeNotFound       = "not_found"
	ErrorTypeServerError    = "server_error"
	ErrorTypeGatewayTimeout = "gateway_timeout"
)

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&ErrorResponse{
		Error: ErrorDetail{Message: message, Type: errType},
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
