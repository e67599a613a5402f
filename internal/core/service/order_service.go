package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orderstack/orderstack/internal/core/domain"
	"github.com/orderstack/orderstack/internal/core/ports"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// sortFields is the whitelist of caller-selectable sort keys. Anything else
// falls back to createdAt descending.
var sortFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"status":    true,
	"title":     true,
}

// OrderService implements order creation, retrieval, listing and the
// role/ownership-gated status transition.
type OrderService struct {
	repo ports.OrderRepository
	// strictTransitions additionally holds admins to the adjacency table
	// (created→processing|cancelled, processing→completed|cancelled). The
	// default policy is terminal-lock only.
	strictTransitions bool
	logger            zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, strictTransitions bool, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, strictTransitions: strictTransitions, logger: logger}
}

func (s *OrderService) Create(ctx context.Context, caller domain.Identity, input ports.CreateOrderInput) (*domain.Order, error) {
	if caller.SubjectID == "" {
		return nil, domain.ErrMissingIdentity
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     caller.SubjectID,
		Status:      domain.StatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().Str("order_id", order.ID).Str("owner_id", order.OwnerID).Msg("order created")
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(order.OwnerID) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// List returns a page of orders visible to the caller. The visible set is
// all orders only when the caller is admin and explicitly asked for all;
// otherwise it is scoped to the caller's own orders, silently ignoring the
// all flag.
func (s *OrderService) List(ctx context.Context, caller domain.Identity, input ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	filter := ports.ListOrdersFilter{
		OwnerID: caller.SubjectID,
		SortBy:  input.SortBy,
		SortAsc: input.Order == "asc",
		Page:    page,
		Limit:   limit,
	}
	if caller.IsAdmin() && input.All {
		filter.OwnerID = ""
	}
	if !sortFields[filter.SortBy] {
		filter.SortBy = "createdAt"
		filter.SortAsc = false
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}

	return &ports.ListOrdersResult{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}, nil
}

// UpdateStatus applies a caller-requested status transition:
//
//  1. unknown order → ErrOrderNotFound
//  2. non-admin caller that does not own the order → ErrForbidden
//  3. order already completed → ErrStatusLocked, regardless of role
//  4. non-admin owner may only request cancelled → ErrForbidden otherwise
//  5. in strict mode, admin transitions must follow the adjacency table
func (s *OrderService) UpdateStatus(ctx context.Context, caller domain.Identity, id string, status domain.OrderStatus) (*domain.Order, error) {
	updated, err := s.repo.UpdateStatus(ctx, id, func(order *domain.Order) error {
		if !caller.IsAdmin() && order.OwnerID != caller.SubjectID {
			return domain.ErrForbidden
		}
		if order.Status == domain.StatusCompleted {
			return domain.ErrStatusLocked
		}
		if !caller.IsAdmin() && status != domain.StatusCancelled {
			return domain.ErrForbidden
		}
		if s.strictTransitions && !order.Status.CanTransitionTo(status) {
			return domain.ErrInvalidTransition
		}

		order.Status = status
		order.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", updated.ID).
		Str("status", string(updated.Status)).
		Str("caller_id", caller.SubjectID).
		Msg("order status updated")
	return updated, nil
}
