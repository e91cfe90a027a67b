// Package kernel provides shared domain primitives for the dispatch service.
//
// The package includes:
//   - GeoPoint: a validated latitude/longitude pair used as order origin and destination
//
// Primitives are immutable value objects guarded by guard.ConstructorGuard so
// that a zero value can never pass as a valid instance.
package kernel
