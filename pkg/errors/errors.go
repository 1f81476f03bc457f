package errors

import (
	"fmt"
	"strings"
)

// ErrValidation is returned for local input problems: malformed or
// oversized CSV, missing columns, identifier type mismatch, unparseable
// metafield values. No remote call was made.
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrNotFound is returned when identifier resolution or a metafield
// existence check finds no match
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrRemoteMutation is returned when a mutation response carries
// field-level userErrors; messages are kept verbatim and never retried.
type ErrRemoteMutation struct {
	Messages []string
}

func (e *ErrRemoteMutation) Error() string {
	if len(e.Messages) == 0 {
		return "mutation failed"
	}
	return strings.Join(e.Messages, ", ")
}

// ErrTransport is returned when the remote call itself fails (network,
// auth expiry, non-200 status, GraphQL top-level errors).
type ErrTransport struct {
	Message string
	Err     error
}

func (e *ErrTransport) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ErrTransport) Unwrap() error {
	return e.Err
}

// ErrConflict is returned when an audit entry has already been consumed
// by a previous undo
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}
