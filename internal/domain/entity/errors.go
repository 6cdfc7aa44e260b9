package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrEndpointMissing marks a network entry without an endpoint URL. Such networks are skipped.
	ErrEndpointMissing = errors.New("network endpoint url is not configured")
	// ErrBothProtocolsFailed is matched by every ResolveError.
	ErrBothProtocolsFailed = errors.New("all balance protocols failed")
	// ErrEmptyNetworkResult marks a network for which no account was resolved.
	ErrEmptyNetworkResult = errors.New("no account balance could be resolved")
)

// ProtocolError is a failure of a single balance protocol.
type ProtocolError struct {
	Protocol string
	Err      error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s client error: %v", e.Protocol, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ResolveError is returned when the primary protocol and its fallback both failed.
type ResolveError struct {
	Primary  error
	Fallback error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%v; %v", e.Primary, e.Fallback)
}

func (e *ResolveError) Unwrap() []error {
	return []error{ErrBothProtocolsFailed, e.Primary, e.Fallback}
}
