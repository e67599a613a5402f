// Package response defines the envelope shared by every endpoint of every
// service: {success, data?, error?: {code, message}}. Failure paths use the
// same shape as success paths with success=false.
package response

import "github.com/labstack/echo/v4"

// Canonical error codes.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeEmailExists       = "EMAIL_EXISTS"
	CodeStatusLocked      = "STATUS_LOCKED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeRateLimited       = "RATE_LIMITED"
	CodeUpstream          = "UPSTREAM"
	CodeInternal          = "INTERNAL"
)

// ErrorBody is the error half of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the canonical response body.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// OK renders a success envelope with the given HTTP status.
func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// Fail renders a failure envelope with the given HTTP status and error code.
func Fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Envelope{Success: false, Error: &ErrorBody{Code: code, Message: message}})
}
