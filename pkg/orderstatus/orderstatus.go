// Package orderstatus validates order lifecycle transitions and order
// number formats. The status graph is fixed: orders start PENDING and end
// in one of the two terminal states DELIVERED or CANCELLED.
package orderstatus

import (
	"regexp"
	"strings"
)

// Status is a state in the order lifecycle.
type Status string

const (
	Pending    Status = "PENDING"
	Confirmed  Status = "CONFIRMED"
	Processing Status = "PROCESSING"
	Shipped    Status = "SHIPPED"
	Delivered  Status = "DELIVERED"
	Cancelled  Status = "CANCELLED"
)

// All lists every valid status in lifecycle order.
func All() []Status {
	return []Status{Pending, Confirmed, Processing, Shipped, Delivered, Cancelled}
}

// transitions is the full allowed-edge set. Absent pairs, self-loops and
// edges out of the terminal states are disallowed.
var transitions = map[Status][]Status{
	Pending:    {Confirmed, Cancelled},
	Confirmed:  {Processing, Cancelled},
	Processing: {Shipped, Cancelled},
	Shipped:    {Delivered},
	Delivered:  {},
	Cancelled:  {},
}

// CanTransition reports whether an order may move from current to next.
// It is a pure, total function over all status pairs.
func CanTransition(current, next Status) bool {
	for _, allowed := range transitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns a typed error when the transition is not
// allowed, nil otherwise.
func ValidateTransition(current, next Status) error {
	if !CanTransition(current, next) {
		return &InvalidTransitionError{From: current, To: next}
	}
	return nil
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// Parse converts a raw status string into a Status. The input is matched
// case-sensitively against the canonical upper-case names; an unrecognized
// value fails with the full list of valid names.
func Parse(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", &UnknownStatusError{Value: raw}
	}
	return s, nil
}

// OrderNumberPrefix is the fixed 3-letter prefix of every order number.
const OrderNumberPrefix = "ODV"

// orderNumberRegex matches the fixed order number format: the ODV prefix
// followed by a 14-digit timestamp, e.g. ODV20240101120000.
var orderNumberRegex = regexp.MustCompile(`^` + OrderNumberPrefix + `\d{14}$`)

// ValidateOrderNumber checks the order number against the fixed format.
// It runs before any status lookup so malformed identifiers never reach
// the store.
func ValidateOrderNumber(number string) error {
	if !orderNumberRegex.MatchString(number) {
		return &InvalidOrderNumberError{Value: number}
	}
	return nil
}

func statusNames() string {
	names := make([]string, 0, len(transitions))
	for _, s := range All() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
