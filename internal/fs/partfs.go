package fs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"partfs/internal/logging"
	"partfs/internal/volume"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	vfsLogger = logging.GetLogger().WithPrefix("vfs")
)

// Options controls how the filesystem is presented to the kernel.
type Options struct {
	AllowOther bool // Let users other than the mounter access the files
	Debug      bool // Trace every FUSE request
}

// PartFS exposes each partition of a volume as a file in a single flat
// directory.
type PartFS struct {
	vol   *volume.Volume // Decoded table and backing image
	opts  Options        // Mount presentation
	conn  *fuse.Conn     // FUSE connection
	done  chan error     // Receives the result of Serve
	uid   uint32         // Owner reported for every node
	gid   uint32         // Group reported for every node
	mtime time.Time      // Reported modification time
}

// NewPartFS creates a filesystem over vol.
func NewPartFS(vol *volume.Volume, opts Options) *PartFS {
	vfsLogger.Debug("Creating filesystem for %d partitions", len(vol.Table()))

	// Get UID/GID from environment if set
	uid := safeIntToUint32(os.Getuid())
	gid := safeIntToUint32(os.Getgid())

	if puidStr := os.Getenv("PUID"); puidStr != "" {
		if puid, err := strconv.ParseUint(puidStr, 10, 32); err == nil {
			uid = uint32(puid)
			vfsLogger.Debug("Using PUID from environment: %d", uid)
		}
	}
	if pgidStr := os.Getenv("PGID"); pgidStr != "" {
		if pgid, err := strconv.ParseUint(pgidStr, 10, 32); err == nil {
			gid = uint32(pgid)
			vfsLogger.Debug("Using PGID from environment: %d", gid)
		}
	}

	return &PartFS{
		vol:   vol,
		opts:  opts,
		uid:   uid,
		gid:   gid,
		mtime: time.Now(),
	}
}

// Root implements the fusefs.FS interface, returning the root directory node.
func (pfs *PartFS) Root() (fusefs.Node, error) {
	vfsLogger.Trace("Getting root directory node")
	return &Dir{fs: pfs}, nil
}

// mountOptions returns the options passed to fuse.Mount.
func (pfs *PartFS) mountOptions() []fuse.MountOption {
	opts := []fuse.MountOption{
		fuse.FSName("partfs"),
		fuse.Subtype("partfs"),
	}
	if !pfs.vol.Writable() {
		opts = append(opts, fuse.ReadOnly())
	}
	if pfs.opts.AllowOther {
		opts = append(opts, fuse.AllowOther())
	}
	return opts
}

// Mount attaches the filesystem at mountPoint and serves requests in the
// background until the filesystem is unmounted. Use Wait to block until then.
func (pfs *PartFS) Mount(mountPoint string) error {
	vfsLogger.Info("Mounting %d partitions at %s", len(pfs.vol.Table()), mountPoint)
	vfsLogger.Debug("UID: %d, GID: %d, writable: %v", pfs.uid, pfs.gid, pfs.vol.Writable())

	if pfs.opts.Debug {
		fuse.Debug = func(msg interface{}) {
			vfsLogger.Debug("%v", msg)
		}
	}

	c, err := fuse.Mount(mountPoint, pfs.mountOptions()...)
	if err != nil {
		return fmt.Errorf("mount failed: %w", err)
	}
	pfs.conn = c
	pfs.done = make(chan error, 1)

	go func() {
		err := fusefs.Serve(c, pfs)
		if err != nil {
			vfsLogger.Error("FUSE server error: %v", err)
		}
		pfs.done <- err
	}()

	vfsLogger.Info("Filesystem mounted successfully")
	return nil
}

// Wait blocks until the FUSE server stops and closes the connection.
func (pfs *PartFS) Wait() error {
	if pfs.conn == nil {
		return nil
	}
	err := <-pfs.done
	if cerr := pfs.conn.Close(); err == nil {
		err = cerr
	}
	vfsLogger.Debug("FUSE server stopped")
	return err
}

// Unmount detaches the filesystem from mountPoint.
func (pfs *PartFS) Unmount(mountPoint string) error {
	vfsLogger.Info("Unmounting filesystem from: %s", mountPoint)
	if pfs.conn == nil {
		return nil
	}
	if err := fuse.Unmount(mountPoint); err != nil {
		vfsLogger.Error("Unmount failed: %v", err)
		return err
	}
	vfsLogger.Info("Unmount completed successfully")
	return nil
}

func safeInt64ToUint64(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}

func safeIntToUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	return uint32(n)
}
