package ports

import (
	"context"

	"github.com/orderstack/orderstack/internal/core/domain"
)

// UserRepository defines persistence operations for the credential store.
type UserRepository interface {
	// FindByEmail matches case-insensitively on the email natural key.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Create fails with domain.ErrEmailExists when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	// UpdateRoles replaces the user's role list wholesale.
	UpdateRoles(ctx context.Context, id string, roles []string) (*domain.User, error)
}
