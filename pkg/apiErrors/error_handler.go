package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes grouped by taxonomy. Client errors are never retried and map
// to 4xx; everything below the dispatcher/pipeline boundary is classified
// before it crosses the HTTP surface.
const (
	// Client errors (VAL_*)
	ErrMissingParameter = "VAL_001" // required request parameter absent
	ErrInvalidParameter = "VAL_002" // parameter present but malformed
	ErrUnknownPlatform  = "VAL_003" // platform_id outside the closed set

	// Authentication (AUTH_*)
	ErrInvalidFunctionKey = "AUTH_001"

	// Upstream/connector errors (CON_*)
	ErrConnectorFailure = "CON_001" // non-2xx from a platform API
	ErrTransportFailure = "CON_002" // network-level failure after retries

	// Server errors (SRV_*)
	ErrInternalServer    = "SRV_001"
	ErrDatabaseOperation = "SRV_002"
)

var httpStatusMap = map[string]int{
	ErrMissingParameter:   http.StatusBadRequest,
	ErrInvalidParameter:   http.StatusBadRequest,
	ErrUnknownPlatform:    http.StatusBadRequest,
	ErrInvalidFunctionKey: http.StatusUnauthorized,
	ErrConnectorFailure:   http.StatusInternalServerError,
	ErrTransportFailure:   http.StatusInternalServerError,
	ErrInternalServer:     http.StatusInternalServerError,
	ErrDatabaseOperation:  http.StatusInternalServerError,
}

// APIError is the standardized error body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// StatusFor resolves the HTTP status for a code, defaulting to 500.
func StatusFor(code string) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteError writes the standardized error body with the mapped status.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}
