package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// ErrOrderAlreadyTaken is returned when a claim targets an order that is no longer unassigned.
var ErrOrderAlreadyTaken = errors.New("order has already been taken")

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Unassigned ──> Taken
//
// Taken is terminal. Status is persisted by its string form.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Unassigned is the initial status of every order; no worker holds it yet.
	Unassigned

	// Taken means exactly one worker has claimed the order.
	Taken
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Unassigned: "UNASSIGNED",
		Taken:      "TAKEN",
	}
}

// ParseStatus converts the persisted string form back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of Unassigned or Taken.
func (s Status) Validate() error {
	if s != Unassigned && s != Taken {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Take transitions the status to Taken.
//
// Valid transitions:
//   - Unassigned -> Taken
//
// Invalid transitions:
//   - Taken -> Taken (returns ErrOrderAlreadyTaken)
//   - Unknown -> Taken (invalid initial state)
func (s Status) Take() (Status, error) {
	switch s {
	case Unassigned:
		return Taken, nil
	case Taken:
		return 0, ErrOrderAlreadyTaken
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to take", s.String()),
		)
	}
}
