package ports

import (
	"context"

	"github.com/orderstack/orderstack/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// UserService defines use-case operations for the users service.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login verifies credentials and returns a signed identity assertion
	// alongside the user. Unknown email and wrong password are
	// indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRoles(ctx context.Context, id string, roles []string) (*domain.User, error)
}
