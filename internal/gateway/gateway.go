// Package gateway implements the API gateway: it authenticates callers,
// attaches the verified identity to proxied requests, and reverse-proxies
// /v1/users and /v1/orders to the backend services. The gateway owns no
// domain data, only the signing secret and routing configuration.
package gateway

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/orderstack/orderstack/internal/api"
	"github.com/orderstack/orderstack/internal/api/handler"
	"github.com/orderstack/orderstack/internal/api/metrics"
	apimiddleware "github.com/orderstack/orderstack/internal/api/middleware"
	"github.com/orderstack/orderstack/internal/config"
	"github.com/orderstack/orderstack/internal/core/ports"
)

// openPaths are reachable without a bearer token.
var openPaths = map[string]bool{
	"/v1/users/register": true,
	"/v1/users/login":    true,
}

// New builds the gateway Echo instance.
func New(cfg *config.GatewayConfig, tokens ports.TokenService, log zerolog.Logger) (*echo.Echo, error) {
	usersURL, err := url.Parse(cfg.UsersURL)
	if err != nil {
		return nil, err
	}
	ordersURL, err := url.Parse(cfg.OrdersURL)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		// Propagate the id to upstreams on the request as well.
		RequestIDHandler: func(c echo.Context, id string) {
			c.Request().Header.Set(echo.HeaderXRequestID, id)
		},
	}))
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowCredentials: false,
	}))
	e.Use(echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: newRateLimiterStore(cfg.RedisAddr, cfg.RedisDB, cfg.RateLimitWindow, cfg.RateLimitMax, log),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	}))
	e.Use(metrics.HTTPMiddleware("gateway"))

	e.GET("/health", handler.Health("gateway"))
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Proxied routes ---
	v1 := e.Group("/v1", authRequired(tokens))
	v1.Group("/users", proxyTo(usersURL, "users", cfg.UpstreamTimeout))
	v1.Group("/orders", proxyTo(ordersURL, "orders", cfg.UpstreamTimeout))

	return e, nil
}

// authRequired verifies the caller's bearer token once at the trust boundary
// and forwards the identity as the X-User header. The inbound X-User header
// is always stripped first: past the gateway it is gateway-owned, never
// client-controlled input.
func authRequired(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Request().Header.Del(apimiddleware.UserHeader)

			if openPaths[c.Request().URL.Path] {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "token required")
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "token required")
			}

			id, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			raw, err := json.Marshal(id)
			if err != nil {
				return err
			}
			c.Request().Header.Set(apimiddleware.UserHeader, string(raw))
			return next(c)
		}
	}
}

// proxyTo reverse-proxies the group to a single upstream, stripping the /v1
// prefix. Upstream failures and header timeouts surface as a uniform 502.
func proxyTo(target *url.URL, name string, timeout time.Duration) echo.MiddlewareFunc {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return echomiddleware.ProxyWithConfig(echomiddleware.ProxyConfig{
		Balancer: echomiddleware.NewRoundRobinBalancer([]*echomiddleware.ProxyTarget{{URL: target}}),
		Rewrite: map[string]string{
			"/v1/" + name:        "/",
			"/v1/" + name + "/*": "/$1",
		},
		Transport: &http.Transport{ResponseHeaderTimeout: timeout},
		ErrorHandler: func(c echo.Context, err error) error {
			metrics.UpstreamErrorsTotal.WithLabelValues(name).Inc()
			return echo.NewHTTPError(http.StatusBadGateway, "upstream error")
		},
	})
}
