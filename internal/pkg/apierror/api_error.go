// Package apierror normalizes failures from REST collaborators.
package apierror

import (
	"errors"
	"fmt"
)

// ApiError is the normalized shape of a failed API call. Code is the HTTP
// status, or 0 when the request never got a response.
type ApiError struct {
	Message string         `json:"message"`
	Code    int            `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *ApiError) Error() string {
	if e.Code == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Code)
}

// GetMessage is what rejected actions surface to users.
func (e *ApiError) GetMessage() string {
	return e.Message
}

func New(code int, message string) *ApiError {
	return &ApiError{Code: code, Message: message}
}

// Network wraps a transport failure.
func Network(err error) *ApiError {
	return &ApiError{
		Message: "Network error. Please check your connection.",
		Details: map[string]any{"cause": err.Error()},
	}
}

// As extracts an ApiError from err.
func As(err error) (*ApiError, bool) {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
