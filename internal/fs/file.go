package fs

import (
	"context"
	"errors"
	"syscall"

	"partfs/internal/logging"
	"partfs/internal/volume"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	fileLogger = logging.GetLogger().WithPrefix("file")
)

// File is a partition exposed as a fixed-size regular file.
type File struct {
	fs    *PartFS
	name  string
	inode uint64
}

var _ FileInterface = (*File)(nil)

// Attr implements the Node interface, returning the file's attributes.
func (f *File) Attr(_ context.Context, a *fuse.Attr) error {
	fileLogger.Trace("Getting attributes for %q", f.name)

	attrs, err := f.fs.vol.Attributes(f.name)
	if err != nil {
		return ToFuseError(err)
	}

	a.Inode = f.inode
	a.Mode = attrs.Mode
	a.Nlink = attrs.Nlink
	a.Size = safeInt64ToUint64(attrs.Size)
	a.Blocks = safeInt64ToUint64((attrs.Size + 511) / 512)
	a.BlockSize = 512
	a.Uid = f.fs.uid
	a.Gid = f.fs.gid
	a.Mtime = f.fs.mtime
	a.Ctime = f.fs.mtime
	a.Atime = f.fs.mtime
	return nil
}

// Open implements the NodeOpener interface. Write opens are refused on a
// read-only volume.
func (f *File) Open(_ context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	fileLogger.Debug("Opening %q with flags %v", f.name, req.Flags)

	if _, err := f.fs.vol.Lookup(f.name); err != nil {
		return nil, ToFuseError(err)
	}

	if !req.Flags.IsReadOnly() && !f.fs.vol.Writable() {
		fileLogger.Warn("Attempted write access to read-only partition: %q", f.name)
		return nil, syscall.EROFS
	}

	// Reads and writes go straight to the image
	resp.Flags |= fuse.OpenDirectIO

	return &FileHandle{fs: f.fs, name: f.name}, nil
}

// Setattr implements the NodeSetattrer interface. Partitions have a fixed
// size, so only a truncate to the current size is accepted. Other attribute
// changes are ignored.
func (f *File) Setattr(ctx context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	fileLogger.Debug("Setattr on %q: %v", f.name, req.Valid)

	if req.Valid.Size() {
		attrs, err := f.fs.vol.Attributes(f.name)
		if err != nil {
			return ToFuseError(err)
		}
		if req.Size != safeInt64ToUint64(attrs.Size) {
			fileLogger.Warn("Refusing to resize %q from %d to %d", f.name, attrs.Size, req.Size)
			return syscall.EPERM
		}
	}

	return f.Attr(ctx, &resp.Attr)
}

// Fsync implements the NodeFsyncer interface, flushing the backing image.
func (f *File) Fsync(_ context.Context, _ *fuse.FsyncRequest) error {
	fileLogger.Debug("Syncing %q", f.name)
	return ToFuseError(f.fs.vol.Sync())
}

// FileHandle is an open partition. It holds no descriptor of its own; all
// I/O goes through the shared volume.
type FileHandle struct {
	fs   *PartFS
	name string
}

var _ FileHandleInterface = (*FileHandle)(nil)

// Read implements the HandleReader interface.
func (fh *FileHandle) Read(_ context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	fileLogger.Trace("Reading %d bytes from %q at offset %d", req.Size, fh.name, req.Offset)

	buf := make([]byte, req.Size)
	n, err := fh.fs.vol.Read(fh.name, buf, req.Offset)
	if err != nil {
		fileLogger.Error("Failed to read %q: %v", fh.name, err)
		return ToFuseError(err)
	}

	resp.Data = buf[:n]
	return nil
}

// Write implements the HandleWriter interface.
func (fh *FileHandle) Write(_ context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	fileLogger.Trace("Writing %d bytes to %q at offset %d", len(req.Data), fh.name, req.Offset)

	if !fh.fs.vol.Writable() {
		return syscall.EROFS
	}

	n, err := fh.fs.vol.Write(fh.name, req.Data, req.Offset)
	if err != nil {
		if !errors.Is(err, volume.ErrNoSpace) {
			fileLogger.Error("Failed to write %q: %v", fh.name, err)
		}
		return ToFuseError(err)
	}

	resp.Size = n
	return nil
}

// Flush implements the HandleFlusher interface. Writes are not buffered, so
// there is nothing to do.
func (fh *FileHandle) Flush(_ context.Context, _ *fuse.FlushRequest) error {
	return nil
}

// Release implements the HandleReleaser interface.
func (fh *FileHandle) Release(_ context.Context, _ *fuse.ReleaseRequest) error {
	fileLogger.Debug("Closing %q", fh.name)
	return nil
}
