package volume

import (
	"fmt"

	"partfs/internal/image"
	"partfs/internal/logging"
	"partfs/internal/partition"
)

// Options controls how Open binds the image.
type Options struct {
	// Writable opens the image read/write and permits Write.
	Writable bool
}

// Open binds the image at path, detects its partition table layout and
// decodes the table. Any error means the volume cannot be served.
func Open(path string, opts Options) (*Volume, error) {
	img, err := image.Open(path, opts.Writable)
	if err != nil {
		return nil, err
	}

	v, err := bind(img, opts)
	if err != nil {
		img.Close()
		return nil, err
	}
	return v, nil
}

func bind(img *image.Image, opts Options) (*Volume, error) {
	size := img.Size()
	if size%partition.SectorSize != 0 {
		return nil, fmt.Errorf("%s is %d bytes: %w", img.Path(), size, ErrUnaligned)
	}

	header, err := img.Header()
	if err != nil {
		return nil, err
	}

	format, table, err := partition.Decode(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", img.Path(), err)
	}
	logger.Info("Found %s partition table with %d partitions", format, len(table))
	if logger.Enabled(logging.LevelDebug) {
		logger.Debug("Partitions:\n%s", table)
	}

	if err := table.Validate(size); err != nil {
		return nil, fmt.Errorf("%s: malformed %s table: %w", img.Path(), format, err)
	}

	return New(img, table, format, opts.Writable), nil
}
