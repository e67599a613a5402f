package ports

import (
	"context"

	"github.com/orderstack/orderstack/internal/core/domain"
)

// ListOrdersFilter carries the repository-level query for listing orders.
// OwnerID is enforced by the service layer: empty means no owner scoping
// (admin requesting all orders).
type ListOrdersFilter struct {
	OwnerID string
	SortBy  string // one of: createdAt, updatedAt, status, title
	SortAsc bool
	Page    int // 1-based, already clamped by the service
	Limit   int // already clamped by the service
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// List returns a page of orders matching filter and the total count.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int, error)
	// UpdateStatus applies mutate to the stored order under the collection
	// write lock. mutate runs against the freshly loaded record so the
	// read-modify-write cycle cannot race a concurrent writer.
	UpdateStatus(ctx context.Context, id string, mutate func(*domain.Order) error) (*domain.Order, error)
}
