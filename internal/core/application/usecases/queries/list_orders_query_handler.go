package queries

import (
	"context"

	"dispatch/internal/core/ports"
)

// ListOrdersQueryHandler returns one page of orders in ascending id order.
type ListOrdersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewListOrdersQueryHandler creates a handler reading through non-transactional repositories.
func NewListOrdersQueryHandler(uowFactory ports.UnitOfWorkFactory) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{uowFactory: uowFactory}
}

// Handle returns the orders inside the query window; a page past the end is empty, not an error.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	lower, upper := query.Window()
	orders, err := h.uowFactory.Create().OrderRepository().ListInRange(ctx, lower, upper)
	if err != nil {
		return nil, err
	}

	result := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderResponse{
			ID:       o.ID(),
			Distance: o.Distance(),
			Status:   o.Status().String(),
		})
	}

	return result, nil
}
