// Package volume maps partition-file requests onto positioned I/O against
// the backing image.
package volume

import (
	"errors"
	"io"
	"os"

	"partfs/internal/logging"
	"partfs/internal/partition"
)

var (
	logger = logging.GetLogger().WithPrefix("volume")
)

// Operations is the request surface the filesystem glue dispatches to. Names
// are paths with the leading separator removed; "" is the root directory.
type Operations interface {
	Lookup(name string) (partition.Entry, error)
	Attributes(name string) (Attributes, error)
	List(name string) ([]string, error)
	Read(name string, dest []byte, off int64) (int, error)
	Write(name string, data []byte, off int64) (int, error)
	Sync() error
}

// Store is the backing image as seen by a Volume.
type Store interface {
	io.ReaderAt
	io.WriterAt
	Sync() error
	Close() error
}

// Attributes describes the root directory or a partition file.
type Attributes struct {
	Mode  os.FileMode
	Size  int64
	Nlink uint32
}

// IsDir reports whether the attributes describe the root directory.
func (a Attributes) IsDir() bool {
	return a.Mode.IsDir()
}

// Volume is the immutable pairing of a decoded partition table with the open
// image. It holds no mutable state and is safe for concurrent use.
type Volume struct {
	store    Store
	table    partition.Table
	format   partition.Format
	writable bool
}

var _ Operations = (*Volume)(nil)

// New creates a Volume over an already decoded table.
func New(store Store, table partition.Table, format partition.Format, writable bool) *Volume {
	return &Volume{
		store:    store,
		table:    table,
		format:   format,
		writable: writable,
	}
}

// Format returns the detected partition table layout.
func (v *Volume) Format() partition.Format {
	return v.format
}

// Table returns the partition table. Callers must not modify it.
func (v *Volume) Table() partition.Table {
	return v.table
}

// Writable reports whether writes are permitted.
func (v *Volume) Writable() bool {
	return v.writable
}

// Lookup returns the partition with the given name.
func (v *Volume) Lookup(name string) (partition.Entry, error) {
	e, ok := v.table.Lookup(name)
	if !ok {
		return partition.Entry{}, newError(OpLookup, name, ErrNotFound)
	}
	return e, nil
}

// Attributes describes name: the root directory for "", otherwise a
// fixed-size regular file.
func (v *Volume) Attributes(name string) (Attributes, error) {
	if name == "" {
		return Attributes{
			Mode:  os.ModeDir | 0o755,
			Nlink: uint32(2 + len(v.table)),
		}, nil
	}

	e, ok := v.table.Lookup(name)
	if !ok {
		return Attributes{}, newError(OpGetattr, name, ErrNotFound)
	}

	mode := os.FileMode(0o444)
	if v.writable {
		mode = 0o644
	}
	return Attributes{Mode: mode, Size: e.Size, Nlink: 1}, nil
}

// List returns ".", ".." and every partition name in table order. Only the
// root can be listed.
func (v *Volume) List(name string) ([]string, error) {
	if name != "" {
		return nil, newError(OpReadDir, name, ErrNotFound)
	}
	names := make([]string, 0, len(v.table)+2)
	names = append(names, ".", "..")
	return append(names, v.table.Names()...), nil
}

// Read reads up to len(dest) bytes at off within the partition. A read
// starting at or past the end of the partition returns 0 bytes.
func (v *Volume) Read(name string, dest []byte, off int64) (int, error) {
	e, ok := v.table.Lookup(name)
	if !ok {
		return 0, newError(OpRead, name, ErrNotFound)
	}
	if off < 0 {
		return 0, newError(OpRead, name, ErrInvalidOffset)
	}
	if off >= e.Size {
		return 0, nil
	}
	if remain := e.Size - off; int64(len(dest)) > remain {
		dest = dest[:remain]
	}

	logger.Trace("Reading %d bytes of %s at %d (image offset %d)", len(dest), name, off, e.Start+off)
	n, err := v.store.ReadAt(dest, e.Start+off)
	if err != nil && !errors.Is(err, io.EOF) {
		logger.Debug("Read of %s failed: %v", name, err)
		return n, newError(OpRead, name, err)
	}
	return n, nil
}

// Write writes data at off within the partition, truncating it at the end
// of the partition. Partitions never grow: a write starting at or past the
// end fails with ErrNoSpace.
func (v *Volume) Write(name string, data []byte, off int64) (int, error) {
	e, ok := v.table.Lookup(name)
	if !ok {
		return 0, newError(OpWrite, name, ErrNotFound)
	}
	if !v.writable {
		return 0, newError(OpWrite, name, ErrReadOnly)
	}
	if off < 0 {
		return 0, newError(OpWrite, name, ErrInvalidOffset)
	}
	if off >= e.Size {
		return 0, newError(OpWrite, name, ErrNoSpace)
	}
	if remain := e.Size - off; int64(len(data)) > remain {
		data = data[:remain]
	}

	logger.Trace("Writing %d bytes of %s at %d (image offset %d)", len(data), name, off, e.Start+off)
	n, err := v.store.WriteAt(data, e.Start+off)
	if err != nil {
		logger.Debug("Write of %s failed: %v", name, err)
		return n, newError(OpWrite, name, err)
	}
	return n, nil
}

// Sync flushes the image to stable storage.
func (v *Volume) Sync() error {
	if err := v.store.Sync(); err != nil {
		return newError(OpSync, "", err)
	}
	return nil
}

// Close releases the image.
func (v *Volume) Close() error {
	return v.store.Close()
}
