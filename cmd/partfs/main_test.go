package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := parseArgs([]string{"disk.img", "/mnt/focus/"})
		require.NoError(t, err)
		assert.Equal(t, "disk.img", cfg.image)
		assert.Equal(t, "/mnt/focus", cfg.mountPoint)
		assert.False(t, cfg.writable)
		assert.False(t, cfg.verbose)
	})

	t.Run("ReadWrite", func(t *testing.T) {
		cfg, err := parseArgs([]string{"-w", "-v", "disk.img", "mnt"})
		require.NoError(t, err)
		assert.True(t, cfg.writable)
		assert.True(t, cfg.verbose)
	})

	t.Run("MountOptions", func(t *testing.T) {
		cfg, err := parseArgs([]string{"-o", "rw,allow_other", "/dev/sdb", "/mnt/zip"})
		require.NoError(t, err)
		assert.True(t, cfg.writable)
		assert.True(t, cfg.allowOther)
		assert.Equal(t, "/dev/sdb", cfg.image)

		cfg, err = parseArgs([]string{"--rw", "-o", "ro", "disk.img", "mnt"})
		require.NoError(t, err)
		assert.False(t, cfg.writable)
	})

	t.Run("UnknownOption", func(t *testing.T) {
		_, err := parseArgs([]string{"-o", "noatime", "disk.img", "mnt"})
		assert.Error(t, err)
	})

	t.Run("MissingImage", func(t *testing.T) {
		_, err := parseArgs(nil)
		assert.Error(t, err)
	})

	t.Run("MissingMountPoint", func(t *testing.T) {
		_, err := parseArgs([]string{"disk.img"})
		assert.Error(t, err)
	})

	t.Run("TooManyArguments", func(t *testing.T) {
		_, err := parseArgs([]string{"disk.img", "mnt", "extra"})
		assert.Error(t, err)
	})

	t.Run("Help", func(t *testing.T) {
		_, err := parseArgs([]string{"--help"})
		assert.ErrorIs(t, err, pflag.ErrHelp)
	})
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 0, exitStatus(nil))
	assert.Equal(t, 0, exitStatus(pflag.ErrHelp))
	assert.Equal(t, 0, exitStatus(fmt.Errorf("parse: %w", pflag.ErrHelp)))
	assert.Equal(t, 1, exitStatus(errors.New("unknown mount option")))
}
