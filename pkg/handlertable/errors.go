package handlertable

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by the Try* methods.
var (
	// ErrIndexOutOfRange indicates an index below 0 or at/after capacity.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrSlotOccupied indicates a register found the slot already bound
	// or lost a race for it.
	ErrSlotOccupied = errors.New("slot occupied")

	// ErrSlotEmpty indicates no handler was bound at the index.
	ErrSlotEmpty = errors.New("slot empty")

	// ErrNilHandler indicates an attempt to register a nil handler.
	ErrNilHandler = errors.New("nil handler")
)

// IndexError wraps a table failure with the index it happened at.
type IndexError struct {
	// Op is the operation that failed ("register", "unregister", "handle").
	Op string
	// Index is the requested index.
	Index int
	// Cap is the table capacity.
	Cap int
	// Err is the underlying sentinel.
	Err error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d (capacity %d): %v", e.Op, e.Index, e.Cap, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *IndexError) Unwrap() error {
	return e.Err
}
