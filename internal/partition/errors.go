package partition

import "errors"

var (
	// ErrShortHeader indicates fewer than HeaderSize bytes could be read
	ErrShortHeader = errors.New("partition header is shorter than three sectors")

	// ErrUnknownFormat indicates no known partition table signature matched
	ErrUnknownFormat = errors.New("unknown partition type")

	// ErrTruncatedHeader indicates a declared partition count whose records
	// do not fit in the header
	ErrTruncatedHeader = errors.New("partition records extend past the header")

	// ErrOutOfRange indicates a partition extending past the backing store
	ErrOutOfRange = errors.New("partition extends past end of image")

	// ErrDuplicateName indicates two partitions decoded to the same name
	ErrDuplicateName = errors.New("duplicate partition name")

	// ErrInvalidName indicates a name that cannot be used as a file name
	ErrInvalidName = errors.New("invalid partition name")
)
