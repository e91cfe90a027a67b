// Package order provides the Order aggregate of the dispatch service.
//
// The package includes:
//   - Order: a delivery job with an immutable distance and a single mutable status
//   - Status: the Unassigned -> Taken state machine
//
// Key business rules:
//   - An order is never created without a non-negative distance
//   - Status changes at most once, from Unassigned to Taken; Taken is terminal
//   - Orders are never deleted
//
// The aggregate itself is not safe for concurrent mutation; claim exclusivity
// is provided by the order store (see ports.OrderRepository.GetUnassignedForUpdate).
package order
