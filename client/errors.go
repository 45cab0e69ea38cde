package client

import (
	"encoding/json"
	"fmt"
)

// ProviderError is a structured error response from the belnav API.
type ProviderError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("belnav: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("belnav: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound returns true if the error is a 404 not found.
func IsNotFound(err error) bool {
	if e, ok := err.(*ProviderError); ok {
		return e.StatusCode == 404
	}
	return false
}

// IsInvalid returns true if the error is a 400 rejected request.
func IsInvalid(err error) bool {
	if e, ok := err.(*ProviderError); ok {
		return e.StatusCode == 400
	}
	return false
}

// IsRateLimited returns true if the error is a 429 rate limit.
func IsRateLimited(err error) bool {
	if e, ok := err.(*ProviderError); ok {
		return e.StatusCode == 429
	}
	return false
}

// parseProviderError attempts to decode a JSON error body; falls back to raw text.
func parseProviderError(statusCode int, body []byte) *ProviderError {
	provErr := &ProviderError{StatusCode: statusCode}
	if err := json.Unmarshal(body, provErr); err != nil || provErr.Code == "" {
		provErr.Code = "unknown"
		provErr.Message = string(body)
	}
	return provErr
}
