package image

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestIoctlGetUint64(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 512), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	// A regular file rejects block device ioctls without touching the
	// destination.
	value, err := ioctlGetUint64(int(f.Fd()), unix.BLKGETSIZE64)
	assert.Error(t, err)
	assert.Zero(t, value)
}

func TestBlockDeviceSizeOnRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 512), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = blockDeviceSize(f)
	var errno unix.Errno
	assert.ErrorAs(t, err, &errno)
}
