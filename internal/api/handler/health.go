package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

// Health returns a liveness handler reporting the service name.
func Health(service string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{OK: true, Service: service})
	}
}
