package partition

import "fmt"

// MicroDrive header layout. The header describes two drives; for each, a
// count byte, a table of 32-bit start sectors and a table of 24-bit sector
// counts, both with a 4 byte stride.
const (
	mdCountOffset = 0x0c
	mdStride      = 4
)

var mdDrives = [2]struct {
	start int
	count int
}{
	{start: 0x20, count: 0x40},
	{start: 0x80, count: 0xa0},
}

func decodeMicroDrive(data []byte) (Table, error) {
	var table Table
	for d, drive := range mdDrives {
		pcount := int(data[mdCountOffset+d])
		for i := 0; i < pcount; i++ {
			start := read32(data[drive.start+i*mdStride:])
			count := read24(data[drive.count+i*mdStride:])
			name := fmt.Sprintf("MicroDrive%d-%d", d+1, i+1)
			table = append(table, newEntry(name, start, count))
		}
	}
	return table, nil
}
