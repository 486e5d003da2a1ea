package apierror

import "net/http"

// Error codes returned in the canonical envelope.
const (
	CodeBadRequest         = "bad_request"
	CodeMissingHeaders     = "missing_headers"
	CodeInvalidSignature   = "invalid_signature"
	CodeUnauthorized       = "unauthorized"
	CodeNotFound           = "not_found"
	CodeStorageUnavailable = "storage_unavailable"
	CodeInternal           = "internal"
)

// ErrorResponse represents the canonical error envelope returned by the service.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// ToStatusCode maps an error code to its HTTP status.
func ToStatusCode(code string) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeBadRequest, CodeMissingHeaders, CodeInvalidSignature:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
