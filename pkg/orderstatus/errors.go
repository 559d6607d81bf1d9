package orderstatus

import (
	"errors"
	"fmt"
)

// InvalidTransitionError indicates a disallowed edge in the status graph.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition from '%s' to '%s'", e.From, e.To)
}

// UnknownStatusError indicates a status string outside the canonical set.
// The message enumerates every valid name so callers can self-correct.
type UnknownStatusError struct {
	Value string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown order status '%s', valid statuses are: %s", e.Value, statusNames())
}

// InvalidOrderNumberError indicates an order number that does not match the
// required 3-letter prefix + 14-digit timestamp format.
type InvalidOrderNumberError struct {
	Value string
}

func (e *InvalidOrderNumberError) Error() string {
	return fmt.Sprintf("invalid order number '%s': expected the %s prefix followed by a 14-digit timestamp", e.Value, OrderNumberPrefix)
}

func IsInvalidTransitionError(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}

func IsUnknownStatusError(err error) bool {
	var e *UnknownStatusError
	return errors.As(err, &e)
}

func IsInvalidOrderNumberError(err error) bool {
	var e *InvalidOrderNumberError
	return errors.As(err, &e)
}
