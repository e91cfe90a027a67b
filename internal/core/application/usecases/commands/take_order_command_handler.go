package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// TakeOrderCommandHandler runs the order claim protocol.
//
// Outcomes:
//   - nil: the caller now owns the order
//   - errs.ErrObjectNotFound: no order with that id
//   - order.ErrOrderAlreadyTaken: someone else owns it, or is claiming it right now
//   - anything else: infrastructure failure, never reported as already taken
//
// Under any number of concurrent handlers for the same id, at most one returns nil.
type TakeOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewTakeOrderCommandHandler creates a handler for order claims.
func NewTakeOrderCommandHandler(uowFactory OrderUoWFactory) TakeOrderCommandHandler {
	return TakeOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle claims the order.
//
// The first two checks read without locks and only short-circuit obvious losers.
// The claim itself is decided by GetUnassignedForUpdate, which acquires the row
// lock only if the order is still Unassigned and fails immediately if the lock is held.
func (h *TakeOrderCommandHandler) Handle(ctx context.Context, cmd TakeOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()

	current, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if current.Status() == order.Taken {
		return order.ErrOrderAlreadyTaken
	}

	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	locked, err := orderRepo.GetUnassignedForUpdate(ctx, cmd.OrderID())
	if err != nil {
		if errors.Is(err, ports.ErrRecordLocked) || errors.Is(err, errs.ErrObjectNotFound) {
			return order.ErrOrderAlreadyTaken
		}
		return err
	}

	if err = locked.Take(); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, locked); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
