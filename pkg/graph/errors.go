package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateNode = errors.New("duplicate node")
	ErrEmptyID       = errors.New("empty node id")
	ErrInvalidWeight = errors.New("invalid edge weight")
	ErrInvalidFormat = errors.New("invalid graph file")
)

// Error provides structured error information for graph operations.
type Error struct {
	Op     string // Operation that failed (e.g., "AddEdge", "Load")
	NodeID string // Node involved, if any
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s node %q: %v", e.Op, e.NodeID, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(op, nodeID string, cause error) *Error {
	return &Error{Op: op, NodeID: nodeID, Cause: cause}
}
