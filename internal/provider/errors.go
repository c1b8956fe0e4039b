package provider

import (
	"errors"
	"fmt"
)

// Common errors returned by provider clients.
var (
	// ErrCredential indicates a missing or rejected access token. Not
	// retryable without user action.
	ErrCredential = errors.New("provider credential error")

	// ErrTransport indicates a network or timeout failure. Retryable.
	ErrTransport = errors.New("provider transport error")

	// ErrValidation indicates malformed metadata or creator input,
	// detected before any network call.
	ErrValidation = errors.New("invalid deposit input")

	// ErrWorkflowState indicates an inconsistent remote record state,
	// such as a published record missing its edit action link or a
	// record ID that cannot be recovered from a DOI.
	ErrWorkflowState = errors.New("inconsistent deposit state")
)

// APIError is a non-2xx response from a provider API. The body is
// carried for diagnostics but is rarely suitable for direct display.
type APIError struct {
	StatusCode int
	Body       string
	Op         string // The operation that failed, e.g. "create draft"
}

func (e *APIError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("provider API error during %s (status %d): %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("provider API error (status %d): %s", e.StatusCode, e.Body)
}

// Retryable reports whether the response status warrants a retry
// (server errors and rate limiting).
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// IsRetryable reports whether the error is worth retrying: transport
// failures and retryable API errors. Credential, validation, and
// workflow-state errors are not.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrTransport) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}

// IsCredential reports whether the error indicates an authentication
// problem.
func IsCredential(err error) bool {
	if errors.Is(err, ErrCredential) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}
