package volume

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a name that is not in the partition table
	ErrNotFound = errors.New("no such partition")

	// ErrNoSpace indicates a write starting at or past the end of a partition
	ErrNoSpace = errors.New("no space left in partition")

	// ErrReadOnly indicates a write to a volume opened read-only
	ErrReadOnly = errors.New("volume is read-only")

	// ErrInvalidOffset indicates a negative file offset
	ErrInvalidOffset = errors.New("invalid offset")

	// ErrUnaligned indicates an image whose size is not a whole number of sectors
	ErrUnaligned = errors.New("image size is not a multiple of the sector size")
)

// Error wraps a per-request failure with the operation and the partition
// name it applied to.
type Error struct {
	Op   string // Operation that failed (e.g., "read", "write")
	Name string // Partition name, empty for the root
	Err  error  // Underlying error
}

// Error implements the error interface, providing a formatted error message
func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("operation %s on %s failed: %v", e.Op, e.Name, e.Err)
}

// Unwrap implements error unwrapping for the errors.Is/As functions
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, name string, err error) *Error {
	return &Error{Op: op, Name: name, Err: err}
}

// Operation names for consistent logging and error reporting
const (
	OpLookup  = "lookup"
	OpGetattr = "getattr"
	OpReadDir = "readdir"
	OpRead    = "read"
	OpWrite   = "write"
	OpSync    = "fsync"
)
