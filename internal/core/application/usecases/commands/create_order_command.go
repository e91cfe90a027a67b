package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a delivery between two points.
//
// Example:
//
//	origin, _ := kernel.NewGeoPoint("40.7128", "-74.0060")
//	destination, _ := kernel.NewGeoPoint("40.7306", "-73.9352")
//	cmd, err := NewCreateOrderCommand(origin, destination)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	origin      kernel.GeoPoint
	destination kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new delivery order.
// Both points must be constructed GeoPoints.
func NewCreateOrderCommand(origin, destination kernel.GeoPoint) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrigin(origin),
		cmd.setDestination(destination),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// Origin returns the pickup point.
func (c CreateOrderCommand) Origin() kernel.GeoPoint {
	return c.origin
}

// Destination returns the drop-off point.
func (c CreateOrderCommand) Destination() kernel.GeoPoint {
	return c.destination
}

func (c *CreateOrderCommand) setOrigin(origin kernel.GeoPoint) error {
	if err := origin.Validate(); err != nil {
		return err
	}

	c.origin = origin
	return nil
}

func (c *CreateOrderCommand) setDestination(destination kernel.GeoPoint) error {
	if err := destination.Validate(); err != nil {
		return err
	}

	c.destination = destination
	return nil
}
