package image

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"partfs/internal/partition"
)

func blockDeviceSize(f *os.File) (int64, error) {
	fd := int(f.Fd())

	bytes, err := ioctlGetUint64(fd, unix.BLKGETSIZE64)
	if err == nil {
		return int64(bytes), nil
	}
	logger.Debug("BLKGETSIZE64 failed on %s: %v", f.Name(), err)

	// BLKGETSIZE writes an unsigned long, which matches int on every
	// Linux GOARCH.
	sectors, err := unix.IoctlGetInt(fd, unix.BLKGETSIZE)
	if err != nil {
		return 0, fmt.Errorf("unable to determine block count: %w", err)
	}
	return int64(sectors) * partition.SectorSize, nil
}

// ioctlGetUint64 performs an ioctl that stores a 64-bit value regardless of
// the platform word size. unix.IoctlGetInt only has room for an int.
func ioctlGetUint64(fd int, req uint) (uint64, error) {
	var value uint64
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(unsafe.Pointer(&value)))
	if errno != 0 {
		return 0, errno
	}
	return value, nil
}
