package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and publishes events for
	// the aggregates it changed.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and releases any locks it holds.
	// Returns error if no active transaction or rollback fails; deferred calls
	// after a successful Commit may ignore it.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction,
	// or a non-transactional one when Begin has not been called.
	OrderRepository() OrderRepository
}
