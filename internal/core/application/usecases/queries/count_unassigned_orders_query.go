package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var ErrCountUnassignedOrdersQueryIsNotConstructed = errors.New(
	"CountUnassignedOrdersQuery must be created via NewCountUnassignedOrdersQuery constructor",
)

// CountUnassignedOrdersQuery measures the backlog of orders no worker has claimed.
// This is a parameterless query.
type CountUnassignedOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewCountUnassignedOrdersQuery() CountUnassignedOrdersQuery {
	return CountUnassignedOrdersQuery{guard: guard.NewConstructorGuard()}
}

func (q CountUnassignedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrCountUnassignedOrdersQueryIsNotConstructed)
}

// CountUnassignedOrdersQueryHandler counts Unassigned orders.
type CountUnassignedOrdersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewCountUnassignedOrdersQueryHandler(uowFactory ports.UnitOfWorkFactory) CountUnassignedOrdersQueryHandler {
	return CountUnassignedOrdersQueryHandler{uowFactory: uowFactory}
}

func (h CountUnassignedOrdersQueryHandler) Handle(ctx context.Context, query CountUnassignedOrdersQuery) (int64, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	return h.uowFactory.Create().OrderRepository().CountUnassigned(ctx)
}
