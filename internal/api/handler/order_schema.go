package handler

import "github.com/orderstack/orderstack/internal/core/domain"

type createOrderRequest struct {
	Title       string `json:"title"       validate:"required,min=1"`
	Description string `json:"description" validate:"max=1000"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=created processing completed cancelled"`
}

// listOrdersResponse is the paginated list view.
type listOrdersResponse struct {
	Items []*domain.Order `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
	Pages int             `json:"pages"`
}
