package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindAuthorization:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}

// AppError is a classified error carrying a user-facing message.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation reports malformed, missing or conflicting input.
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// Authorization reports that policy forbids the action.
func Authorization(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message}
}

// NotFound reports that a referenced entity is absent.
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// Internal wraps a datastore or collaborator failure.
func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

const genericMessage = "internal server error"

// MapErrorToHTTP maps domain errors to HTTP errors.
// Internal failures only expose their detail when debug is set.
func MapErrorToHTTP(err error, debug bool) *HTTPError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return internalHTTPError(err, debug)
	}

	switch appErr.Kind {
	case KindValidation:
		return NewHTTPError(http.StatusBadRequest, appErr.Error(), appErr.Kind.String())
	case KindAuthorization:
		return NewHTTPError(http.StatusForbidden, appErr.Error(), appErr.Kind.String())
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, appErr.Error(), appErr.Kind.String())
	default:
		return internalHTTPError(err, debug)
	}
}

func internalHTTPError(err error, debug bool) *HTTPError {
	message := genericMessage
	if debug && err != nil {
		message = genericMessage + ": " + err.Error()
	}
	return NewHTTPError(http.StatusInternalServerError, message, KindInternal.String())
}
