package commands

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// CreateOrderCommandHandler resolves the distance of a new order and stores it
// as Unassigned. Nothing is persisted when the distance cannot be resolved.
type CreateOrderCommandHandler struct {
	uowFactory     OrderUoWFactory
	resolver       ports.DistanceResolver
	resolveTimeout time.Duration
}

// NewCreateOrderCommandHandler creates a handler for order creation.
// resolveTimeout bounds the outbound distance lookup; zero or negative disables the bound.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	resolver ports.DistanceResolver,
	resolveTimeout time.Duration,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:     uowFactory,
		resolver:       resolver,
		resolveTimeout: resolveTimeout,
	}
}

// Handle resolves the distance, then persists the order in its own transaction.
// The returned order carries the store-assigned id.
//
// Resolver failures are returned as *ports.DistanceResolutionError.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	distance, err := h.resolve(ctx, cmd)
	if err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(distance)
	if err != nil {
		return nil, fmt.Errorf("resolver returned unusable distance: %w", err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}

func (h *CreateOrderCommandHandler) resolve(ctx context.Context, cmd CreateOrderCommand) (int, error) {
	if h.resolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.resolveTimeout)
		defer cancel()
	}

	return h.resolver.Resolve(ctx, cmd.Origin(), cmd.Destination())
}
