package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types
var (
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")
	ErrInternal   = errors.New("internal error")
	ErrValidation = errors.New("validation error")
	ErrTransport  = errors.New("transport error")
	ErrDecode     = errors.New("decode error")
	ErrEmptyBody  = errors.New("response body is null or empty")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	HTTPStatus int               `json:"-"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a not found error
func NotFound(resource string, id string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Code:       "NOT_FOUND",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]string{"resource": resource, "id": id},
	}
}

// Status maps a non-2xx response from the remote API to an error.
// A 404 unwraps to ErrNotFound so callers can treat it as "no records".
func Status(code int, method, path, body string) *AppError {
	base := ErrInternal
	switch {
	case code == http.StatusNotFound:
		base = ErrNotFound
	case code >= 400 && code < 500:
		base = ErrBadRequest
	}
	details := map[string]string{"method": method, "path": path}
	if body != "" {
		details["body"] = body
	}
	return &AppError{
		Err:        base,
		Message:    fmt.Sprintf("API call failed: %d - %s", code, http.StatusText(code)),
		Code:       fmt.Sprintf("HTTP_%d", code),
		HTTPStatus: code,
		Details:    details,
	}
}

// Transport wraps a connection, timeout or request construction failure
func Transport(err error) *AppError {
	return &AppError{
		Err:  fmt.Errorf("%w: %w", ErrTransport, err),
		Code: "TRANSPORT_ERROR",
	}
}

// Decode wraps a malformed response body
func Decode(err error) *AppError {
	return &AppError{
		Err:  fmt.Errorf("%w: %w", ErrDecode, err),
		Code: "DECODE_ERROR",
	}
}

// Validation creates a validation error with field details
func Validation(message string, details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// IsNotFound reports whether err is (or wraps) a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is (or wraps) a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsTransport reports whether err is (or wraps) a connection level failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// MessageOr returns the human readable message of err, or fallback when
// the error carries none. An AppError's Message wins over its chain.
func MessageOr(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
