package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any AppError carrying the same code, so detailed copies of a
// sentinel still satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

// WithDetails returns a copy of e with details attached.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	c := *e
	c.Details = details
	return &c
}

// WithMessage returns a copy of e with a human-readable reason.
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

// As unwraps err into an *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the code of err or an empty string for foreign errors.
func KindOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ""
}

// Is is a shortcut for the standard library's errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
