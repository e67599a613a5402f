package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	"github.com/orderstack/orderstack/internal/api/handler"
	"github.com/orderstack/orderstack/internal/api/metrics"
	"github.com/orderstack/orderstack/internal/api/middleware"
	"github.com/orderstack/orderstack/internal/core/ports"
)

// NewOrdersRouter builds the Echo instance for the orders service. Every
// order route requires an identity, established either from the gateway's
// X-User header or from a directly presented bearer token.
func NewOrdersRouter(orders ports.OrderService, tokens ports.TokenService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(metrics.HTTPMiddleware("orders"))

	h := handler.NewOrderHandler(orders)
	identity := middleware.Identity(tokens)

	// --- Open routes ---
	e.GET("/health", handler.Health("orders"))
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated routes ---
	e.POST("/", h.Create, identity)
	e.GET("/", h.List, identity)
	e.GET("/:id", h.Get, identity)
	e.PATCH("/:id/status", h.UpdateStatus, identity)

	return e
}
