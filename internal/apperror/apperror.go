// Package apperror defines the error kinds that cross service boundaries and
// how they map onto HTTP responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the kind of failure
type Code string

const (
	CodeValidation        Code = "VALIDATION_FAILED"
	CodeGeneration        Code = "GENERATION_FAILED"
	CodeUpload            Code = "UPLOAD_FAILED"
	CodeBadRequest        Code = "BAD_REQUEST"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeTooManyRequests   Code = "TOO_MANY_REQUESTS"
	CodeUnavailable       Code = "SERVICE_UNAVAILABLE"
	CodeExternalService   Code = "EXTERNAL_SERVICE_ERROR"
	CodeInternal          Code = "INTERNAL_ERROR"
	CodeUserNotFound      Code = "USER_NOT_FOUND"
	CodeUserServiceDenied Code = "USER_SERVICE_UNAUTHORIZED"
)

// AppError is an error with a stable code and an HTTP status
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// StatusCode returns the HTTP status for the error
func (e *AppError) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// New creates an AppError
func New(code Code, status int, message string) *AppError {
	return &AppError{Code: code, Status: status, Message: message}
}

// Wrap creates an AppError around a cause
func Wrap(code Code, status int, message string, cause error) *AppError {
	return &AppError{Code: code, Status: status, Message: message, Cause: cause}
}

// Sentinels for errors.Is comparisons
var (
	ErrGeneration = New(CodeGeneration, http.StatusBadGateway, "recipe generation failed")
	ErrUpload     = New(CodeUpload, http.StatusBadGateway, "image upload failed")
	ErrNotFound   = New(CodeNotFound, http.StatusNotFound, "resource not found")
	ErrForbidden  = New(CodeForbidden, http.StatusForbidden, "forbidden")
)

// Generation reports an unrecoverable failure in the recipe generation
// pipeline. The message is shown to the caller.
func Generation(message string, cause error) *AppError {
	return Wrap(CodeGeneration, http.StatusBadGateway, message, cause)
}

// Upload reports a failed object store upload. It never reaches the caller.
func Upload(message string, cause error) *AppError {
	return Wrap(CodeUpload, http.StatusBadGateway, message, cause)
}

func Validation(message string) *AppError {
	return New(CodeValidation, http.StatusBadRequest, message)
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, http.StatusBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, http.StatusForbidden, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, http.StatusNotFound, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, http.StatusConflict, message)
}

func Unavailable(message string, cause error) *AppError {
	return Wrap(CodeUnavailable, http.StatusServiceUnavailable, message, cause)
}

func ExternalService(message string, cause error) *AppError {
	return Wrap(CodeExternalService, http.StatusBadGateway, message, cause)
}

func Internal(message string, cause error) *AppError {
	return Wrap(CodeInternal, http.StatusInternalServerError, message, cause)
}

// As extracts an AppError from err
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code
func HasCode(err error, code Code) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// FromError converts any error into an AppError, treating unknown errors as
// internal failures
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Internal("internal server error", err)
}
