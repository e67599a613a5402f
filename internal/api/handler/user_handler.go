package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orderstack/orderstack/internal/api/middleware"
	"github.com/orderstack/orderstack/internal/api/response"
	"github.com/orderstack/orderstack/internal/core/domain"
	"github.com/orderstack/orderstack/internal/core/ports"
)

// UserHandler handles HTTP requests for the users service.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Router       /register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return response.OK(c, http.StatusCreated, user.Public())
}

// Login authenticates a user and returns a signed token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Router       /login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return response.OK(c, http.StatusOK, loginResponse{Token: token, User: user.Public()})
}

// Me returns the caller's own account.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	id, ok := middleware.CallerIdentity(c)
	if !ok {
		return domain.ErrMissingIdentity
	}

	user, err := h.service.GetByID(c.Request().Context(), id.SubjectID)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, user.Public())
}

// List returns all users. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       / [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	safe := make([]domain.User, 0, len(users))
	for _, u := range users {
		safe = append(safe, u.Public())
	}
	return response.OK(c, http.StatusOK, safe)
}

// UpdateRoles replaces a user's role list. Admin only. The change takes
// effect on the next token issuance: outstanding tokens keep their roles
// snapshot until they expire.
//
// @Summary      Replace a user's roles
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "User id"
// @Param        body  body      rolesRequest  true  "New role list"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /{id}/roles [patch]
func (h *UserHandler) UpdateRoles(c echo.Context) error {
	var req rolesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateRoles(c.Request().Context(), c.Param("id"), req.Roles)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, user.Public())
}
