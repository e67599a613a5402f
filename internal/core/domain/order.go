package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusCreated    OrderStatus = "created"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// validTransitions defines the strict state machine used when the orders
// service runs with strict transitions enabled. Completed and cancelled have
// no outgoing edges.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusCreated:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
}

var ErrOrderNotFound = errors.New("order not found")
var ErrForbidden = errors.New("access forbidden")
var ErrStatusLocked = errors.New("completed order cannot be changed")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrMissingIdentity = errors.New("missing caller identity")

// IsValidStatus reports whether s is a member of the status enum.
func IsValidStatus(s OrderStatus) bool {
	switch s {
	case StatusCreated, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from s to next is allowed by
// the strict adjacency table.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is the core aggregate of the orders service.
type Order struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	OwnerID     string      `json:"ownerId"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
