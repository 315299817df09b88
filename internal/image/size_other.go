//go:build !linux

package image

import (
	"errors"
	"os"
)

func blockDeviceSize(f *os.File) (int64, error) {
	return 0, errors.New("block devices not supported on this platform")
}
