package partition

import (
	"fmt"
	"strings"
)

const (
	// SectorSize is the unit of every start and count field in both layouts.
	SectorSize = 512

	// HeaderSize is the number of bytes probed at offset 0 of the image.
	HeaderSize = 3 * SectorSize
)

// Entry is one partition exposed as a file: a named window of Size bytes
// starting Start bytes into the image.
type Entry struct {
	Name  string
	Start int64
	Size  int64
}

// End returns the offset one past the last byte of the partition.
func (e Entry) End() int64 {
	return e.Start + e.Size
}

func (e Entry) String() string {
	return fmt.Sprintf("%-20s %10d %10d", e.Name, e.Start/SectorSize, e.Size/SectorSize)
}

func newEntry(name string, startSector, sectorCount uint32) Entry {
	return Entry{
		Name:  name,
		Start: int64(startSector) * SectorSize,
		Size:  int64(sectorCount) * SectorSize,
	}
}

// Table holds partitions in the order the decoder found them.
type Table []Entry

// Lookup finds a partition by exact name. The first match wins.
func (t Table) Lookup(name string) (Entry, bool) {
	for _, e := range t {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns the partition names in table order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for _, e := range t {
		names = append(names, e.Name)
	}
	return names
}

// Validate checks that every partition fits inside an image of totalSize
// bytes and that every name is usable and unique.
func (t Table) Validate(totalSize int64) error {
	seen := make(map[string]int, len(t))
	for i, e := range t {
		if e.Name == "" || e.Name == "." || e.Name == ".." || strings.ContainsAny(e.Name, "/\x00") {
			return fmt.Errorf("partition %d %q: %w", i+1, e.Name, ErrInvalidName)
		}
		if prev, ok := seen[e.Name]; ok {
			return fmt.Errorf("partitions %d and %d named %q: %w", prev+1, i+1, e.Name, ErrDuplicateName)
		}
		seen[e.Name] = i
		if e.Start < 0 || e.Size < 0 || e.End() > totalSize {
			return fmt.Errorf("partition %q [%d, %d) in %d byte image: %w",
				e.Name, e.Start, e.End(), totalSize, ErrOutOfRange)
		}
	}
	return nil
}

// String renders the table as a listing, one partition per line.
func (t Table) String() string {
	var b strings.Builder
	b.WriteString("    NAME                      START      COUNT\n")
	for i, e := range t {
		fmt.Fprintf(&b, "%2d: %s\n", i+1, e)
	}
	return b.String()
}
