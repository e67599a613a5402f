package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminOnly rejects callers whose identity lacks the admin role. It must run
// after Identity: an absent identity is a 401, an insufficient one a 403.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CallerIdentity(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing caller identity")
			}
			if !id.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			return next(c)
		}
	}
}
