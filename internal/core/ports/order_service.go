package ports

import (
	"context"

	"github.com/orderstack/orderstack/internal/core/domain"
)

// CreateOrderInput carries all data needed to create a new order.
type CreateOrderInput struct {
	Title       string
	Description string
}

// ListOrdersInput carries all parameters for the list endpoint, before
// clamping and scoping.
type ListOrdersInput struct {
	All    bool // admin-only: list every order, not just the caller's
	SortBy string
	Order  string // "asc" or "desc"
	Page   int
	Limit  int
}

// ListOrdersResult is the paginated list view.
type ListOrdersResult struct {
	Items []*domain.Order
	Page  int
	Limit int
	Total int
	Pages int
}

// OrderService defines use-case operations for the orders service. Every
// operation receives the caller identity and enforces the owner-or-admin
// policy itself, so both trust entry points share one rule set.
type OrderService interface {
	Create(ctx context.Context, caller domain.Identity, input CreateOrderInput) (*domain.Order, error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error)
	List(ctx context.Context, caller domain.Identity, input ListOrdersInput) (*ListOrdersResult, error)
	UpdateStatus(ctx context.Context, caller domain.Identity, id string, status domain.OrderStatus) (*domain.Order, error)
}
