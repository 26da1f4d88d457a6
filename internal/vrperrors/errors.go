// Package vrperrors defines the error kinds of spec.md §7. Operators
// never return these — infeasibility is a plain bool/none inside the
// solver's hot path (spec.md §7 "Propagation policy"); these types are
// only raised at the Input/oracle boundary.
package vrperrors

import "fmt"

// InputError is a schema violation, inconsistent dimension, unknown id
// reference, or impossible forced step. Fatal to the current run.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("input error: %s", e.Reason)
	}
	return fmt.Sprintf("input error: %s: %s", e.Field, e.Reason)
}

// NewInputError constructs an InputError, mirroring the store/validate
// fmt.Errorf idiom but typed so callers can switch on kind.
func NewInputError(field, reason string) *InputError {
	return &InputError{Field: field, Reason: reason}
}

// RoutingError wraps a failure returned by the routing oracle while an
// Input's travel matrices are built. Fatal, never swallowed. A forced
// step that cannot be scheduled is an InputError instead.
type RoutingError struct {
	Profile string
	Err     error
}

func (e *RoutingError) Error() string {
	if e.Profile != "" {
		return fmt.Sprintf("routing error (%s): %v", e.Profile, e.Err)
	}
	return fmt.Sprintf("routing error: %v", e.Err)
}

func (e *RoutingError) Unwrap() error { return e.Err }

// InternalInvariantFailure describes a violated solution invariant. No
// package in this module constructs one.
type InternalInvariantFailure struct {
	Invariant string
	Detail    string
}

func (e *InternalInvariantFailure) Error() string {
	return fmt.Sprintf("internal invariant %s violated: %s", e.Invariant, e.Detail)
}
