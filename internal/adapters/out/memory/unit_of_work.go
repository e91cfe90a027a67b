package memory

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ErrNoActiveTransaction is returned by Commit and Rollback outside Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

// UnitOfWork stages changes to the store and holds the order locks acquired
// by GetUnassignedForUpdate until Commit or Rollback. It is not safe for
// concurrent use; create one per operation.
type UnitOfWork struct {
	store   *Store
	active  bool
	staged  map[int64]row
	held    []int64
	tracked []*order.Order
}

// Begin starts a transaction. Calling it again while active is a no-op.
func (uow *UnitOfWork) Begin(_ context.Context) error {
	if uow.active {
		return nil
	}
	uow.active = true
	uow.tracked = uow.tracked[:0]
	return nil
}

// Commit makes staged changes visible, releases held locks and publishes
// the tracked aggregates.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}

	uow.store.apply(uow.staged)
	tracked := uow.tracked
	uow.reset()

	uow.store.publish(ctx, tracked)
	return nil
}

// Rollback discards staged changes and releases held locks.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	uow.reset()
	return nil
}

// OrderRepository returns a repository that stages into this unit of work
// while a transaction is active and writes through otherwise.
func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

func (uow *UnitOfWork) reset() {
	for _, id := range uow.held {
		uow.store.unlock(id)
	}
	uow.held = nil
	uow.staged = make(map[int64]row)
	uow.tracked = nil
	uow.active = false
}

func (uow *UnitOfWork) holds(id int64) bool {
	for _, held := range uow.held {
		if held == id {
			return true
		}
	}
	return false
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.ID() != 0 {
		return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("order %d is already persisted", aggregate.ID()))
	}

	if err := aggregate.BindID(r.uow.store.nextID()); err != nil {
		return err
	}

	r.write(aggregate)
	return nil
}

func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, ok := r.lookup(aggregate.ID()); !ok {
		return notFound(aggregate.ID())
	}

	r.write(aggregate)
	return nil
}

func (r *orderRepository) Get(_ context.Context, id int64) (*order.Order, error) {
	current, ok := r.lookup(id)
	if !ok {
		return nil, notFound(id)
	}
	return order.RestoreOrder(id, current.distance, current.status)
}

func (r *orderRepository) ListInRange(
	_ context.Context,
	lowerExclusive, upperInclusive int64,
) ([]*order.Order, error) {
	orders := make([]*order.Order, 0)
	if upperInclusive <= lowerExclusive {
		return orders, nil
	}

	for _, id := range r.uow.store.listInRange(lowerExclusive, upperInclusive) {
		current, ok := r.lookup(id)
		if !ok {
			continue
		}
		o, err := order.RestoreOrder(id, current.distance, current.status)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// GetUnassignedForUpdate takes the order's lock without waiting, then checks
// the committed status under that lock.
func (r *orderRepository) GetUnassignedForUpdate(_ context.Context, id int64) (*order.Order, error) {
	if !r.uow.active {
		return nil, ports.ErrTransactionRequired
	}

	if _, ok := r.uow.store.get(id); !ok {
		return nil, notFound(id)
	}

	if !r.uow.holds(id) {
		if !r.uow.store.tryLock(id) {
			return nil, fmt.Errorf("order %d: %w", id, ports.ErrRecordLocked)
		}
		r.uow.held = append(r.uow.held, id)
	}

	current, _ := r.lookup(id)
	if current.status != order.Unassigned {
		return nil, notFound(id)
	}

	return order.RestoreOrder(id, current.distance, current.status)
}

func (r *orderRepository) CountUnassigned(_ context.Context) (int64, error) {
	return r.uow.store.countUnassigned(), nil
}

func (r *orderRepository) lookup(id int64) (row, bool) {
	if staged, ok := r.uow.staged[id]; ok {
		return staged, true
	}
	return r.uow.store.get(id)
}

func (r *orderRepository) write(aggregate *order.Order) {
	next := row{distance: aggregate.Distance(), status: aggregate.Status()}
	if r.uow.active {
		r.uow.staged[aggregate.ID()] = next
	} else {
		r.uow.store.put(aggregate.ID(), next)
	}
	r.uow.tracked = append(r.uow.tracked, aggregate)
}
