// Package image binds the raw disk image or block device that backs every
// partition file.
package image

import (
	"errors"
	"fmt"
	"io"
	"os"

	"partfs/internal/logging"
	"partfs/internal/partition"
)

var (
	logger = logging.GetLogger().WithPrefix("image")

	// ErrReadOnly indicates a write to an image opened read-only
	ErrReadOnly = errors.New("image is open read-only")

	// ErrUnsupported indicates a file that is neither regular nor a block device
	ErrUnsupported = errors.New("not a regular file or block device")
)

// Image is the open backing store. ReadAt and WriteAt are positioned and
// may be called concurrently.
type Image struct {
	file     *os.File
	path     string
	size     int64
	writable bool
}

// Open opens path read-only, or read/write when writable is set, and
// determines its total size.
func Open(path string, writable bool) (*Image, error) {
	if path == "" {
		return nil, errors.New("must pass image or device path")
	}

	flags := os.O_RDONLY
	if writable {
		flags = os.O_RDWR
	}

	logger.Debug("Opening %s (writable=%v)", path, writable)
	f, err := os.OpenFile(path, flags, 0)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}

	size, err := fileSize(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to determine size of %s: %w", path, err)
	}
	logger.Debug("Image %s is %d bytes", path, size)

	return &Image{
		file:     f,
		path:     path,
		size:     size,
		writable: writable,
	}, nil
}

func fileSize(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	mode := info.Mode()
	switch {
	case mode.IsRegular():
		return info.Size(), nil
	case mode&os.ModeDevice != 0 && mode&os.ModeCharDevice == 0:
		return blockDeviceSize(f)
	default:
		return 0, fmt.Errorf("%v: %w", mode, ErrUnsupported)
	}
}

// Path returns the path the image was opened from.
func (i *Image) Path() string {
	return i.path
}

// Size returns the total addressable length in bytes.
func (i *Image) Size() int64 {
	return i.size
}

// Writable reports whether the image was opened read/write.
func (i *Image) Writable() bool {
	return i.writable
}

// Header reads the probe header from the start of the image.
func (i *Image) Header() ([]byte, error) {
	header := make([]byte, partition.HeaderSize)
	n, err := i.file.ReadAt(header, 0)
	if n < len(header) {
		if err == nil || errors.Is(err, io.EOF) {
			err = partition.ErrShortHeader
		}
		return nil, fmt.Errorf("unable to read %s: %w", i.path, err)
	}
	return header, nil
}

// ReadAt reads len(p) bytes at absolute offset off.
func (i *Image) ReadAt(p []byte, off int64) (int, error) {
	return i.file.ReadAt(p, off)
}

// WriteAt writes p at absolute offset off.
func (i *Image) WriteAt(p []byte, off int64) (int, error) {
	if !i.writable {
		return 0, ErrReadOnly
	}
	return i.file.WriteAt(p, off)
}

// Sync flushes pending writes to stable storage.
func (i *Image) Sync() error {
	return i.file.Sync()
}

// Close releases the underlying file descriptor.
func (i *Image) Close() error {
	logger.Debug("Closing %s", i.path)
	return i.file.Close()
}
