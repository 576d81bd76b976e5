package gateway

import (
	"errors"
	"fmt"
)

// NetworkError means the transport failed before any response was received
// (DNS, timeout, connectivity).
type NetworkError struct {
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError means a response arrived with a non-2xx status other than 401.
type HTTPError struct {
	StatusCode int
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

// UnauthorizedError means the server answered 401; the session has expired
// or was never established.
type UnauthorizedError struct{}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	return "unauthorized: session expired or missing credentials"
}

// BusinessError means the transport and HTTP layers succeeded but the
// response envelope carried a non-success code.
type BusinessError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *BusinessError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Code, e.Message)
}

// IsNetworkError checks if the error is a transport failure
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsUnauthorized checks if the error is an authentication failure
func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}

// IsBusinessError checks if the error is an envelope-level failure
func IsBusinessError(err error) bool {
	var be *BusinessError
	return errors.As(err, &be)
}

// HTTPStatus extracts the status code from an HTTPError, if err is one.
func HTTPStatus(err error) (int, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode, true
	}
	return 0, false
}
