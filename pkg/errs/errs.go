// Package errs holds the error shape returned to API clients.
package errs

import (
	"net/http"
	"strings"
)

// FieldError is a validation failure on one request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is an error that knows its HTTP status and renders as JSON.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"-"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError with the same code.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Errors:  e.Errors,
	}
}

func New(status int, message string, fields []FieldError) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
		Errors:  fields,
	}
}

func NewBadRequestError(message string, fields []FieldError) *HTTPError {
	return New(http.StatusBadRequest, message, fields)
}

func NewUnauthorizedError(message string) *HTTPError {
	return New(http.StatusUnauthorized, message, nil)
}

func NewForbiddenError(message string) *HTTPError {
	return New(http.StatusForbidden, message, nil)
}

func NewNotFoundError(message string) *HTTPError {
	return New(http.StatusNotFound, message, nil)
}

func NewConflictError(message string) *HTTPError {
	return New(http.StatusConflict, message, nil)
}

func NewInternalServerError() *HTTPError {
	return New(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), nil)
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
