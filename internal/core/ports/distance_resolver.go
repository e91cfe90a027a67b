package ports

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrDistanceResolution is the sentinel behind DistanceResolutionError.
var ErrDistanceResolution = errors.New("distance resolution failed")

// DistanceResolver computes the travel distance between two points.
type DistanceResolver interface {
	// Resolve returns a non-negative distance in meters. Every failure,
	// including a cancelled or expired ctx, is reported as *DistanceResolutionError.
	Resolve(ctx context.Context, origin, destination kernel.GeoPoint) (int, error)
}

// DistanceResolutionError carries the diagnostic text of a failed lookup.
// Diagnostic is safe to show to API clients.
type DistanceResolutionError struct {
	Diagnostic string
	Cause      error
}

// NewDistanceResolutionError creates a DistanceResolutionError.
func NewDistanceResolutionError(diagnostic string, cause error) *DistanceResolutionError {
	return &DistanceResolutionError{
		Diagnostic: diagnostic,
		Cause:      cause,
	}
}

func (e *DistanceResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrDistanceResolution, e.Diagnostic, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrDistanceResolution, e.Diagnostic)
}

func (e *DistanceResolutionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrDistanceResolution, e.Cause}
	}
	return []error{ErrDistanceResolution}
}
