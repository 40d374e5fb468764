package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a site error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrMalformedContent ErrorCode = "MALFORMED_CONTENT" // 500
	ErrMissingField     ErrorCode = "MISSING_FIELD"     // 500
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// SiteError represents a structured error with code, status, and details.
type SiteError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *SiteError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SiteError {
	return &SiteError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error. The message is shown to visitors as-is.
func NewNotFound(msg string) *SiteError {
	return &SiteError{
		Code:    ErrNotFound,
		Status:  404,
		Message: msg,
	}
}

// NewSourceNotFound creates a 404 error for a content file that does not exist.
// The path stays in Details so it is logged but never shown to visitors.
func NewSourceNotFound(path string, err error) *SiteError {
	return &SiteError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "content not found",
		Details: map[string]any{"path": path},
		Err:     err,
	}
}

// NewMalformedContent creates a 500 error for a content file that is not a JSON array of objects.
func NewMalformedContent(path string, err error) *SiteError {
	msg := fmt.Sprintf("malformed content in %s", path)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &SiteError{
		Code:    ErrMalformedContent,
		Status:  500,
		Message: msg,
		Details: map[string]any{"path": path},
		Err:     err,
	}
}

// NewMissingField creates a 500 error for a record lacking a required key.
func NewMissingField(field string, index int) *SiteError {
	return &SiteError{
		Code:    ErrMissingField,
		Status:  500,
		Message: fmt.Sprintf("record %d is missing field %q", index, field),
		Details: map[string]any{"field": field, "index": index},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SiteError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SiteError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// Is checks if err is, or wraps, a SiteError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *SiteError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var sErr *SiteError
	if stderrors.As(err, &sErr) && sErr.Status != 0 {
		return sErr.Status
	}
	return 500
}
