package fs

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"partfs/internal/volume"

	"bazil.org/fuse"
)

// writeMicroDriveImage creates a 260 sector MicroDrive image with two
// partitions on drive 1 and one on drive 2. Data bytes hold their offset
// modulo 251.
func writeMicroDriveImage(t *testing.T) (string, []byte) {
	t.Helper()
	data := make([]byte, 260*512)
	for i := 3 * 512; i < len(data); i++ {
		data[i] = byte(i % 251)
	}
	data[0], data[1] = 0xca, 0xcc
	data[0x0c] = 2
	data[0x0d] = 1
	// The signature requires the first start sector to be 256
	binary.LittleEndian.PutUint32(data[0x20:], 256)
	binary.LittleEndian.PutUint32(data[0x40:], 0)
	binary.LittleEndian.PutUint32(data[0x24:], 8)
	binary.LittleEndian.PutUint32(data[0x44:], 4)
	binary.LittleEndian.PutUint32(data[0x80:], 16)
	binary.LittleEndian.PutUint32(data[0xa0:], 2)

	path := filepath.Join(t.TempDir(), "microdrive.img")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to create image: %v", err)
	}
	return path, data
}

func setupTestFS(t *testing.T, writable bool) (*PartFS, string, []byte) {
	t.Helper()
	path, data := writeMicroDriveImage(t)

	vol, err := volume.Open(path, volume.Options{Writable: writable})
	if err != nil {
		t.Fatalf("Failed to open volume: %v", err)
	}
	t.Cleanup(func() { vol.Close() })

	return NewPartFS(vol, Options{}), path, data
}

func TestDirOperations(t *testing.T) {
	pfs, _, _ := setupTestFS(t, false)
	ctx := context.Background()

	t.Run("RootDirectory", func(t *testing.T) {
		root, err := pfs.Root()
		if err != nil {
			t.Fatalf("Failed to get root: %v", err)
		}

		attr := &fuse.Attr{}
		if err := root.Attr(ctx, attr); err != nil {
			t.Fatalf("Failed to get root attributes: %v", err)
		}
		if attr.Mode&os.ModeDir == 0 {
			t.Error("Root should be a directory")
		}
		if attr.Nlink != 5 {
			t.Errorf("Expected link count 5, got %d", attr.Nlink)
		}
	})

	t.Run("ReadDirAll", func(t *testing.T) {
		root, _ := pfs.Root()
		entries, err := root.(*Dir).ReadDirAll(ctx)
		if err != nil {
			t.Fatalf("Failed to read directory: %v", err)
		}

		want := []string{".", "..", "MicroDrive1-1", "MicroDrive1-2", "MicroDrive2-1"}
		if len(entries) != len(want) {
			t.Fatalf("Expected %d entries, got %d", len(want), len(entries))
		}
		for i, e := range entries {
			if e.Name != want[i] {
				t.Errorf("Entry %d: expected %q, got %q", i, want[i], e.Name)
			}
			wantType := fuse.DT_File
			if i < 2 {
				wantType = fuse.DT_Dir
			}
			if e.Type != wantType {
				t.Errorf("Entry %q: expected type %v, got %v", e.Name, wantType, e.Type)
			}
		}
		if entries[3].Inode == entries[4].Inode {
			t.Error("Partitions should have distinct inodes")
		}
	})

	t.Run("Lookup", func(t *testing.T) {
		root, _ := pfs.Root()
		node, err := root.(*Dir).Lookup(ctx, "MicroDrive2-1")
		if err != nil {
			t.Fatalf("Failed to lookup partition: %v", err)
		}

		attr := &fuse.Attr{}
		if err := node.Attr(ctx, attr); err != nil {
			t.Fatalf("Failed to get attributes: %v", err)
		}
		if attr.Size != 2*512 {
			t.Errorf("Expected size %d, got %d", 2*512, attr.Size)
		}
		if attr.Mode != 0444 {
			t.Errorf("Expected mode 0444, got %v", attr.Mode)
		}
	})

	t.Run("LookupMissing", func(t *testing.T) {
		root, _ := pfs.Root()
		_, err := root.(*Dir).Lookup(ctx, "MicroDrive3-1")
		if err != syscall.ENOENT {
			t.Errorf("Expected ENOENT, got %v", err)
		}
	})
}

func TestMountOptions(t *testing.T) {
	ro, _, _ := setupTestFS(t, false)
	rw, _, _ := setupTestFS(t, true)

	if got, want := len(ro.mountOptions()), len(rw.mountOptions())+1; got != want {
		t.Errorf("Read-only mount should add exactly one option: got %d, want %d", got, want)
	}

	rw.opts.AllowOther = true
	if got := len(rw.mountOptions()); got != 3 {
		t.Errorf("Expected 3 options with allow_other, got %d", got)
	}
}
