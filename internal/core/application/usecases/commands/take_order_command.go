package commands

import (
	"errors"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrTakeOrderCommandIsNotConstructed = errors.New(
	"TakeOrderCommand must be created via NewTakeOrderCommand constructor",
)

// TakeOrderCommand is a worker's attempt to claim an order.
type TakeOrderCommand struct { //nolint:recvcheck //using for validation
	orderID int64

	guard guard.ConstructorGuard
}

// NewTakeOrderCommand creates a claim command for the given order id.
func NewTakeOrderCommand(orderID int64) (TakeOrderCommand, error) {
	cmd := TakeOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return TakeOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TakeOrderCommand) Validate() error {
	return c.guard.Validate(ErrTakeOrderCommandIsNotConstructed)
}

// OrderID returns the id of the order to claim.
func (c TakeOrderCommand) OrderID() int64 {
	return c.orderID
}

func (c *TakeOrderCommand) setOrderID(orderID int64) error {
	if orderID < 0 {
		return errs.NewValueIsOutOfRangeError("orderID", orderID, int64(0), int64(math.MaxInt64))
	}

	c.orderID = orderID
	return nil
}
