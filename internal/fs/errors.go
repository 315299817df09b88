// Package fs provides the FUSE binding for partition volumes.
//
// This file contains error translation for the FUSE protocol.
package fs

import (
	"errors"
	"os"
	"syscall"

	"partfs/internal/logging"
	"partfs/internal/volume"
)

var (
	errLogger = logging.GetLogger().WithPrefix("error")
)

// ToFuseError converts a volume error to the errno FUSE should return.
func ToFuseError(err error) error {
	if err == nil {
		return nil
	}

	var volErr *volume.Error
	if errors.As(err, &volErr) {
		errLogger.Trace("Converting volume error to FUSE error: %v", volErr)

		switch {
		case errors.Is(volErr.Err, volume.ErrNotFound):
			return syscall.ENOENT
		case errors.Is(volErr.Err, volume.ErrNoSpace):
			return syscall.ENOSPC
		case errors.Is(volErr.Err, volume.ErrReadOnly):
			return syscall.EROFS
		case errors.Is(volErr.Err, volume.ErrInvalidOffset):
			return syscall.EINVAL
		}
	}

	// Platform errors from the image keep their errno
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}

	errLogger.Trace("Converting standard error to FUSE error: %v", err)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return syscall.ENOENT
	case errors.Is(err, os.ErrPermission):
		return syscall.EACCES
	default:
		errLogger.Debug("Unknown error type, returning EIO: %v", err)
		return syscall.EIO
	}
}
