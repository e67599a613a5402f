package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/orderstack/orderstack/internal/core/domain"
	"github.com/orderstack/orderstack/internal/core/ports"
)

// UserHeader carries the gateway-verified identity as a JSON document
// {"id": "...", "roles": [...]}. It is set exclusively by the gateway after
// verifying the caller's bearer token.
const UserHeader = "X-User"

const identityKey = "identity"

// Identity establishes the caller identity with two trust entry points, in
// order:
//
//  1. The X-User header, when present, is authoritative: the gateway has
//     already verified the token and the header is stripped from client
//     input at the edge. A malformed header is a 401, not a fallthrough.
//  2. Otherwise the raw bearer token is verified directly, for backends
//     reached without the gateway. Same verification rule, same policy.
//
// With neither, the request is unauthenticated.
func Identity(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := c.Request().Header.Get(UserHeader); raw != "" {
				var id domain.Identity
				if err := json.Unmarshal([]byte(raw), &id); err != nil || id.SubjectID == "" {
					return echo.NewHTTPError(http.StatusUnauthorized, "malformed identity header")
				}
				c.Set(identityKey, id)
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			id, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// CallerIdentity extracts the identity injected by the Identity middleware.
func CallerIdentity(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
