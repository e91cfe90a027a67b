// Package ports defines the contracts between the dispatch core and its adapters:
// order persistence, transaction boundaries, distance resolution and event publishing.
package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
)

// ErrRecordLocked is returned by GetUnassignedForUpdate when another transaction
// already holds the row lock. The caller is never blocked waiting for it.
var ErrRecordLocked = errors.New("record is locked by another transaction")

// ErrTransactionRequired is returned when a locking read runs outside Begin/Commit.
var ErrTransactionRequired = errors.New("operation requires an active transaction")

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order and binds the store-assigned id to the aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the status of an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id without taking any lock.
	// Returns errs.ErrObjectNotFound when no order has that id.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// ListInRange returns orders with lowerExclusive < id <= upperInclusive,
	// ascending by id. An empty range yields an empty slice.
	ListInRange(ctx context.Context, lowerExclusive, upperInclusive int64) ([]*order.Order, error)

	// GetUnassignedForUpdate is the conditional exclusive acquire of the claim path.
	// It must run inside a transaction (ErrTransactionRequired otherwise) and never
	// blocks on a held lock.
	//
	// Outcomes:
	//   - the order, locked until the transaction ends, when it exists and is unassigned
	//   - errs.ErrObjectNotFound when no unassigned order has that id
	//   - ErrRecordLocked when another transaction holds the row
	//   - any other error is an infrastructure failure
	GetUnassignedForUpdate(ctx context.Context, id int64) (*order.Order, error)

	// CountUnassigned returns how many orders are still waiting for a worker.
	CountUnassigned(ctx context.Context) (int64, error)
}
