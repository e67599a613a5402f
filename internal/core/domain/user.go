package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailExists = errors.New("user with this email already exists")
var ErrInvalidCredentials = errors.New("invalid email or password")

// User models an account held by the users service. PasswordHash never
// leaves the credential store.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password,omitempty"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public returns a copy of u safe to expose outside the credential store.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
