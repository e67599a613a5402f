package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orderstack/orderstack/internal/api/response"
	"github.com/orderstack/orderstack/internal/core/domain"
	"github.com/orderstack/orderstack/internal/core/service"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and canonical code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the shared {success, error: {code, message}} envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := resolveError(err, log, c)
		_ = response.Fail(c, status, code, msg)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, codeForStatus(he.Code), fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, response.CodeNotFound, "order not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, response.CodeNotFound, "user not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, response.CodeForbidden, "access denied"
	case errors.Is(err, domain.ErrStatusLocked):
		return http.StatusConflict, response.CodeStatusLocked, "completed order cannot be changed"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, response.CodeInvalidTransition, err.Error()
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, response.CodeEmailExists, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, response.CodeUnauthorized, err.Error()
	case errors.Is(err, domain.ErrMissingIdentity):
		return http.StatusUnauthorized, response.CodeUnauthorized, "missing caller identity"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, response.CodeUnauthorized, "invalid or expired token"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, response.CodeInternal, "internal server error"
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return response.CodeValidation
	case http.StatusUnauthorized:
		return response.CodeUnauthorized
	case http.StatusForbidden:
		return response.CodeForbidden
	case http.StatusNotFound:
		return response.CodeNotFound
	case http.StatusTooManyRequests:
		return response.CodeRateLimited
	case http.StatusBadGateway:
		return response.CodeUpstream
	default:
		return response.CodeInternal
	}
}
