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

	_ "github.com/orderstack/orderstack/docs"
)

// NewUsersRouter builds the Echo instance for the users service.
func NewUsersRouter(users ports.UserService, tokens ports.TokenService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(metrics.HTTPMiddleware("users"))

	h := handler.NewUserHandler(users)
	identity := middleware.Identity(tokens)

	// --- Open routes ---
	e.GET("/health", handler.Health("users"))
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)
	e.POST("/register", h.Register)
	e.POST("/login", h.Login)

	// --- Authenticated routes ---
	e.GET("/me", h.Me, identity)
	e.GET("/", h.List, identity, middleware.AdminOnly())
	e.PATCH("/:id/roles", h.UpdateRoles, identity, middleware.AdminOnly())

	return e
}
