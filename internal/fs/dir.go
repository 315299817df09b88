package fs

import (
	"context"

	"partfs/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	dirLogger = logging.GetLogger().WithPrefix("dir")
)

// rootInode is the inode of the root directory. Partition i gets
// rootInode+1+i.
const rootInode = 1

// Dir is the root directory. Partitions are its only children.
type Dir struct {
	fs *PartFS
}

var _ Directory = (*Dir)(nil)

// Attr implements the Node interface, returning directory attributes.
func (d *Dir) Attr(_ context.Context, a *fuse.Attr) error {
	dirLogger.Trace("Getting attributes for root directory")

	attrs, err := d.fs.vol.Attributes("")
	if err != nil {
		return ToFuseError(err)
	}

	a.Inode = rootInode
	a.Mode = attrs.Mode
	a.Nlink = attrs.Nlink
	a.Uid = d.fs.uid
	a.Gid = d.fs.gid
	a.Mtime = d.fs.mtime
	a.Ctime = d.fs.mtime
	a.Atime = d.fs.mtime
	return nil
}

// Lookup implements the NodeStringLookuper interface, finding a partition.
func (d *Dir) Lookup(_ context.Context, name string) (fusefs.Node, error) {
	dirLogger.Debug("Looking up %q", name)

	entry, err := d.fs.vol.Lookup(name)
	if err != nil {
		dirLogger.Debug("Partition not found: %q", name)
		return nil, ToFuseError(err)
	}

	return &File{
		fs:    d.fs,
		name:  entry.Name,
		inode: d.inodeOf(entry.Name),
	}, nil
}

// ReadDirAll implements the HandleReadDirAller interface, listing partitions
// in table order.
func (d *Dir) ReadDirAll(_ context.Context) ([]fuse.Dirent, error) {
	dirLogger.Debug("Reading root directory")

	names, err := d.fs.vol.List("")
	if err != nil {
		return nil, ToFuseError(err)
	}

	entries := make([]fuse.Dirent, 0, len(names))
	for _, name := range names {
		switch name {
		case ".", "..":
			entries = append(entries, fuse.Dirent{Inode: rootInode, Name: name, Type: fuse.DT_Dir})
		default:
			entries = append(entries, fuse.Dirent{Inode: d.inodeOf(name), Name: name, Type: fuse.DT_File})
		}
	}

	dirLogger.Debug("Root directory contains %d entries", len(entries))
	return entries, nil
}

// inodeOf returns a stable inode number for a partition name.
func (d *Dir) inodeOf(name string) uint64 {
	for i, e := range d.fs.vol.Table() {
		if e.Name == name {
			return rootInode + 1 + uint64(i)
		}
	}
	return 0
}
