package a2a

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAgent is returned by Registry.Lookup for an id that was
	// never registered (or was registered under a different id).
	ErrUnknownAgent = errors.New("a2a: unknown agent")

	// ErrInvalidRegistration is returned for self-registration and for
	// malformed ids or urls. The registry is left untouched in either case.
	ErrInvalidRegistration = errors.New("a2a: invalid registration")

	// ErrConfiguration is returned at construction time when required
	// identity configuration is absent.
	ErrConfiguration = errors.New("a2a: missing configuration")
)

// MalformedEnvelopeError names the first required envelope field found missing.
type MalformedEnvelopeError struct {
	Field string
}

func (e *MalformedEnvelopeError) Error() string {
	return fmt.Sprintf("a2a: malformed envelope: missing %s", e.Field)
}

// FailureReason classifies why a remote hop failed.
type FailureReason string

const (
	ReasonUnreachable FailureReason = "unreachable"
	ReasonTimeout     FailureReason = "timeout"
	ReasonBadStatus   FailureReason = "bad_status"
	ReasonBadBody     FailureReason = "bad_body"
)

// RoutingFailure wraps a failed remote dispatch. Transport errors never
// escape the dispatcher raw; they are always translated into one of the
// four reasons so the router can answer with a diagnostic envelope.
type RoutingFailure struct {
	Reason FailureReason
	Target string
	Err    error
}

func (f *RoutingFailure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("a2a: dispatch to %s failed: %s", f.Target, f.Reason)
	}
	return fmt.Sprintf("a2a: dispatch to %s failed (%s): %v", f.Target, f.Reason, f.Err)
}

func (f *RoutingFailure) Unwrap() error { return f.Err }
