package fs

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"partfs/internal/volume"
)

func TestToFuseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"Nil", nil, nil},
		{"NotFound", &volume.Error{Op: volume.OpRead, Name: "x", Err: volume.ErrNotFound}, syscall.ENOENT},
		{"NoSpace", &volume.Error{Op: volume.OpWrite, Name: "x", Err: volume.ErrNoSpace}, syscall.ENOSPC},
		{"ReadOnly", &volume.Error{Op: volume.OpWrite, Name: "x", Err: volume.ErrReadOnly}, syscall.EROFS},
		{"InvalidOffset", &volume.Error{Op: volume.OpRead, Name: "x", Err: volume.ErrInvalidOffset}, syscall.EINVAL},
		{"PlatformErrno", &volume.Error{Op: volume.OpRead, Name: "x", Err: &os.PathError{Op: "read", Path: "img", Err: syscall.EBADF}}, syscall.EBADF},
		{"Permission", fmt.Errorf("open: %w", os.ErrPermission), syscall.EACCES},
		{"Other", errors.New("boom"), syscall.EIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToFuseError(tt.err); got != tt.want {
				t.Errorf("ToFuseError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
