package jsonfile

import (
	"context"
	"sort"
	"strings"

	"github.com/orderstack/orderstack/internal/core/domain"
	"github.com/orderstack/orderstack/internal/core/ports"
)

// OrderRepository is the file-backed order store.
type OrderRepository struct {
	coll *Collection[domain.Order]
}

func NewOrderRepository(path string) *OrderRepository {
	return &OrderRepository{coll: NewCollection[domain.Order](path)}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.coll.Update(func(orders []domain.Order) ([]domain.Order, error) {
		return append(orders, *o), nil
	})
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	orders, err := r.coll.Load()
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			o := orders[i]
			return &o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *OrderRepository) List(ctx context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	orders, err := r.coll.Load()
	if err != nil {
		return nil, 0, err
	}

	var matched []domain.Order
	for _, o := range orders {
		if filter.OwnerID != "" && o.OwnerID != filter.OwnerID {
			continue
		}
		matched = append(matched, o)
	}

	sortOrders(matched, filter.SortBy, filter.SortAsc)

	total := len(matched)
	offset := (filter.Page - 1) * filter.Limit
	if offset > total {
		offset = total
	}
	end := offset + filter.Limit
	if end > total {
		end = total
	}

	page := make([]*domain.Order, 0, end-offset)
	for i := offset; i < end; i++ {
		o := matched[i]
		page = append(page, &o)
	}
	return page, total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, mutate func(*domain.Order) error) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var updated domain.Order
	err := r.coll.Update(func(orders []domain.Order) ([]domain.Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				if err := mutate(&orders[i]); err != nil {
					return nil, err
				}
				updated = orders[i]
				return orders, nil
			}
		}
		return nil, domain.ErrOrderNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// sortOrders sorts in place by the whitelisted field. Ties keep the original
// (insertion) order via stable sort.
func sortOrders(orders []domain.Order, field string, asc bool) {
	less := func(a, b domain.Order) bool {
		switch field {
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "status":
			return a.Status < b.Status
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default: // createdAt
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if asc {
			return less(orders[i], orders[j])
		}
		return less(orders[j], orders[i])
	})
}
