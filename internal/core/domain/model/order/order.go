package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrOrderIDAlreadyBound is returned when the store tries to assign an identifier twice.
	ErrOrderIDAlreadyBound = errors.New("order identifier is already bound")
)

// Order is a delivery job between two points. It is the aggregate root of the
// order lifecycle.
//
// Order follows these invariants:
//   - Distance is set once at creation and is never negative
//   - The identifier is assigned once by the order store and never changes
//   - Status moves from Unassigned to Taken at most once
//
// Fields are private; the only mutation after creation is Take.
type Order struct {
	// id is assigned by the store; 0 until the order is persisted
	id int64

	// distance is the travel distance reported by the routing service, in meters
	distance int

	// status is the only mutable field
	status Status

	guard guard.ConstructorGuard
}

// NewOrder creates an unpersisted order in Unassigned status.
//
// Example:
//
//	o, err := order.NewOrder(500)
//	if err != nil {
//	    return err
//	}
//	err = repo.Add(ctx, o) // o.ID() is now set
func NewOrder(distance int) (*Order, error) {
	o := &Order{
		status: Unassigned,
		guard:  guard.NewConstructorGuard(),
	}

	if err := o.setDistance(distance); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds a persisted order. It validates every field, so rows
// that break the invariants never reach the domain.
func RestoreOrder(id int64, distance int, status Status) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setDistance(distance),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built by one of its constructors.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two persisted orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id != 0 && o.id == other.id
}

// ID returns the store-assigned identifier, or 0 before the order is persisted.
func (o *Order) ID() int64 {
	return o.id
}

// Distance returns the travel distance in meters.
func (o *Order) Distance() int {
	return o.distance
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// BindID records the identifier the store assigned on insert.
// It may be called only once per order.
func (o *Order) BindID(id int64) error {
	if o.id != 0 {
		return ErrOrderIDAlreadyBound
	}
	return o.setID(id)
}

// Take marks the order as claimed. It returns ErrOrderAlreadyTaken when the
// order is already Taken and leaves the order unchanged on any error.
//
// Take only changes the in-memory aggregate. Exclusivity across concurrent
// claimants comes from the order store's conditional lock, not from this method.
func (o *Order) Take() error {
	newStatus, err := o.status.Take()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

func (o *Order) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id is invalid", fmt.Errorf("%d is not greater than 0", id))
	}
	o.id = id
	return nil
}

func (o *Order) setDistance(distance int) error {
	if distance < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distance is invalid", fmt.Errorf("%d is negative", distance))
	}
	o.distance = distance
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
