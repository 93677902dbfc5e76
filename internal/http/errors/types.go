// Package errors defines the wire-level error shape and the catalog of
// predefined errors the API can return.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the standard application error structure
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // not serialized, used for the header
	Err        error  `json:"-"` // original cause, for logs, never exposed to the client
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap gives access to the original error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError
func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// Wrap creates an AppError around an existing error
func Wrap(err error, status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Err:        err,
	}
}

// FromError converts a generic error into an AppError.
// Anything unrecognized becomes a generic internal error preserving the
// original as cause.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail adds detail to the error (useful for validations).
// Returns a COPY so the base variables are never mutated.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause attaches the original error.
// Returns a COPY.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// PREDEFINED ERRORS
// =================================================================================

// ---------------------------------------------------------------------------------
// 400 Bad Request
// ---------------------------------------------------------------------------------

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request has invalid syntax or missing parameters.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "The request body is not valid JSON.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrNoCredential = &AppError{
		Code:       "NO_CREDENTIAL",
		Message:    "No access token provided.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrEmailMissing = &AppError{
		Code:       "EMAIL_MISSING",
		Message:    "The provider did not return an email address.",
		HTTPStatus: http.StatusBadRequest,
	}
)

// ---------------------------------------------------------------------------------
// 401 Unauthorized
// ---------------------------------------------------------------------------------

var (
	ErrInvalidToken = &AppError{
		Code:       "INVALID_TOKEN",
		Message:    "The provided token is invalid or expired.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// ---------------------------------------------------------------------------------
// 403 Forbidden
// ---------------------------------------------------------------------------------

var (
	ErrRegistrationClosed = &AppError{
		Code:       "REGISTRATION_CLOSED",
		Message:    "Register action is actualy not available.",
		HTTPStatus: http.StatusForbidden,
	}
)

// ---------------------------------------------------------------------------------
// 404 Not Found
// ---------------------------------------------------------------------------------

var (
	ErrUnknownProvider = &AppError{
		Code:       "UNKNOWN_PROVIDER",
		Message:    "The requested provider is not registered.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrProviderNotConfigured = &AppError{
		Code:       "PROVIDER_NOT_CONFIGURED",
		Message:    "The requested provider is not configured for this deployment.",
		HTTPStatus: http.StatusNotFound,
	}
)

// ---------------------------------------------------------------------------------
// 409 Conflict
// ---------------------------------------------------------------------------------

var (
	ErrEmailTaken = &AppError{
		Code:       "EMAIL_TAKEN",
		Message:    "Email is already taken.",
		HTTPStatus: http.StatusConflict,
	}
)

// ---------------------------------------------------------------------------------
// 429 Too Many Requests
// ---------------------------------------------------------------------------------

var (
	ErrRateLimited = &AppError{
		Code:       "RATE_LIMITED",
		Message:    "Too many requests. Try again later.",
		HTTPStatus: http.StatusTooManyRequests,
	}
)

// ---------------------------------------------------------------------------------
// 5xx Server Errors
// ---------------------------------------------------------------------------------

var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrStoreFailure = &AppError{
		Code:       "STORE_FAILURE",
		Message:    "The account store is unavailable.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrProviderCallFailed = &AppError{
		Code:       "PROVIDER_CALL_FAILED",
		Message:    "The identity provider could not be reached.",
		HTTPStatus: http.StatusBadGateway,
	}
)
