package handler

import "github.com/orderstack/orderstack/internal/core/domain"

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

type rolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,min=1"`
}

// loginResponse pairs the identity assertion with the public user view.
type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
