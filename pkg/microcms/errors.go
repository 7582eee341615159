package microcms

import (
	"errors"
	"fmt"
	"net/http"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrServiceDomainRequired = errors.New("service domain is required")
	ErrAPIKeyRequired        = errors.New("API key is required")
	ErrInvalidServiceDomain  = errors.New("service domain must be a bare subdomain label")
	ErrEndpointRequired      = errors.New("endpoint is required")
	ErrContentIDRequired     = errors.New("content ID is required")
	ErrContentRequired       = errors.New("content is required")
	ErrClientRequired        = errors.New("client is required")
)

// ConfigurationError reports a client that cannot be constructed.
type ConfigurationError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ValidationError reports a call rejected before any request was sent.
type ValidationError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// HTTPError is a response the API answered with a non-success status.
// Message holds the server's "message" field when the body carried one.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: response status %d", e.Method, e.URL, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}

	return msg
}

// NetworkError reports that the transport never produced a response.
type NetworkError struct {
	Method   string
	URL      string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s after %d attempt(s): %v", e.Method, e.URL, e.Attempts, e.Err)
}

// Unwrap returns the transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an HTTPError.
func StatusCode(err error) int {
	httpErr := &HTTPError{}
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	return 0
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsTooManyRequests checks if the error is a 429 response that outlived the retry budget.
func IsTooManyRequests(err error) bool {
	return StatusCode(err) == http.StatusTooManyRequests
}

// IsValidationError checks if the call was rejected before reaching the network.
func IsValidationError(err error) bool {
	validationErr := &ValidationError{}

	return errors.As(err, &validationErr)
}

// IsConfigurationError checks if the error came from client construction.
func IsConfigurationError(err error) bool {
	configErr := &ConfigurationError{}

	return errors.As(err, &configErr)
}

// IsNetworkError checks if the transport failed to produce any response.
func IsNetworkError(err error) bool {
	networkErr := &NetworkError{}

	return errors.As(err, &networkErr)
}
