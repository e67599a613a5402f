package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/orderstack/orderstack/internal/api/metrics"
	"github.com/orderstack/orderstack/internal/api/middleware"
	"github.com/orderstack/orderstack/internal/api/response"
	"github.com/orderstack/orderstack/internal/core/domain"
	"github.com/orderstack/orderstack/internal/core/ports"
)

// OrderHandler handles HTTP requests for the orders service.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create creates a new order owned by the caller.
//
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Router       / [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		return domain.ErrMissingIdentity
	}

	order, err := h.service.Create(c.Request().Context(), caller, ports.CreateOrderInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.Inc()
	return response.OK(c, http.StatusCreated, order)
}

// List returns a page of orders visible to the caller.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (1-100)"
// @Param        all    query     string  false  "Admin only: list all orders (1/true)"
// @Param        sort   query     string  false  "Sort field: createdAt, updatedAt, status, title"
// @Param        order  query     string  false  "Sort direction: asc or desc"
// @Success      200    {object}  response.Envelope
// @Failure      401    {object}  response.Envelope
// @Router       / [get]
func (h *OrderHandler) List(c echo.Context) error {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		return domain.ErrMissingIdentity
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	all := c.QueryParam("all") == "1" || c.QueryParam("all") == "true"

	result, err := h.service.List(c.Request().Context(), caller, ports.ListOrdersInput{
		All:    all,
		SortBy: c.QueryParam("sort"),
		Order:  c.QueryParam("order"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	return response.OK(c, http.StatusOK, listOrdersResponse{
		Items: result.Items,
		Page:  result.Page,
		Limit: result.Limit,
		Total: result.Total,
		Pages: result.Pages,
	})
}

// Get returns a single order. Owner or admin only.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Order id"
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		return domain.ErrMissingIdentity
	}

	order, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, order)
}

// UpdateStatus moves an order through the status state machine.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Order id"
// @Param        body  body      updateStatusRequest  true  "Requested status"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Router       /{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		return domain.ErrMissingIdentity
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), caller, c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		metrics.StatusTransitionsTotal.WithLabelValues(req.Status, "rejected").Inc()
		return err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(req.Status, "applied").Inc()
	return response.OK(c, http.StatusOK, order)
}
