// Package guard provides ConstructorGuard, a marker embedded in value objects,
// commands and queries so that zero values can be told apart from instances
// built through their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing struct went through its constructor.
// The zero value reports "not constructed".
//
// Example usage:
//
//	type TakeOrderCommand struct {
//	    orderID int64
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c TakeOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrTakeOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard was not created by NewConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
