package cellular

import (
	"errors"
	"fmt"
)

// Domain errors for grid construction and loading.
var (
	// ErrShapeMismatch indicates an initial matrix whose dimensions differ
	// from the grid.
	ErrShapeMismatch = errors.New("cellular: state matrix does not match grid dimensions")

	// ErrUnknownState indicates a state name outside a kind's value set.
	ErrUnknownState = errors.New("cellular: unknown state")

	// ErrInvalidDimensions indicates a non-positive grid width or height.
	ErrInvalidDimensions = errors.New("cellular: grid dimensions must be positive")

	// ErrUnknownTopology indicates an unsupported topology/neighbor pair.
	ErrUnknownTopology = errors.New("cellular: unknown topology")

	// ErrProtocolViolation indicates a broken stepping contract. It is only
	// ever raised through a panic carrying a *ProtocolError.
	ErrProtocolViolation = errors.New("cellular: stepping protocol violated")
)

// ProtocolError reports a programming error in the stepping protocol, such
// as an out-of-sequence append or a next-slot write outside a step.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return ErrProtocolViolation.Error() + ": " + e.Message
}

func (e *ProtocolError) Unwrap() error {
	return ErrProtocolViolation
}

func protocolf(format string, args ...any) *ProtocolError {
	return &ProtocolError{Message: fmt.Sprintf(format, args...)}
}
