package common

import (
	"errors"
	"net/http"
)

// Stable error codes surfaced in API payloads.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnknownPlay  = "UNKNOWN_PLAY"
	CodeUnknownGenre = "UNKNOWN_GENRE"
	CodeInternal     = "INTERNAL"
)

// AppError carries an error code and HTTP status alongside the wrapped cause.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BadRequest builds an AppError for malformed or invalid caller input.
func BadRequest(message string, err error) *AppError {
	return &AppError{Code: CodeBadRequest, Message: message, HTTPStatus: http.StatusBadRequest, Err: err}
}

// Unprocessable builds an AppError for invoices that parse but cannot be
// billed, such as references to unknown plays or genres.
func Unprocessable(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: http.StatusUnprocessableEntity, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
