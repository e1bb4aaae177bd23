package engine

import (
	"fmt"
)

// PreparationError reports a statement or batch family that failed to compile.
type PreparationError struct {
	Statement string
	Query     string
	Err       error
}

func (e *PreparationError) Error() string {
	return fmt.Sprintf("failed to prepare %s: %v", e.Statement, e.Err)
}

func (e *PreparationError) Unwrap() error {
	return e.Err
}

// InvariantViolationError is returned when a chunk has no batch plan of its
// exact size. It points at a configuration defect and must not be retried.
type InvariantViolationError struct {
	Kind      string
	ChunkSize int
	Min       int
	Max       int
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf(
		"no batch plan of size %d for %s (family covers [%d, %d])",
		e.ChunkSize,
		e.Kind,
		e.Min,
		e.Max,
	)
}

// ExecutionError wraps a store failure with the statement kind and, for bulk
// writes, the index and rows of the chunk that failed.
type ExecutionError struct {
	Kind  string
	Chunk int
	Rows  []Row
	Err   error
}

func (e *ExecutionError) Error() string {
	if e.Rows == nil {
		return fmt.Sprintf("query=%s: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("query=%s, chunk=%d, rows=%v: %v", e.Kind, e.Chunk, e.Rows, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// SerializationError reports a row that could not be encoded. No store request
// is issued when it is returned.
type SerializationError struct {
	Kind  string
	Index int
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize row %d for %s: %v", e.Index, e.Kind, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
