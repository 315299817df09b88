package partition

import "bytes"

// Focus and Zip header layout. Sector 0 holds the signature, the partition
// count and 16 byte extent records; sector 1 holds 32 byte name fields.
const (
	focusCountOffset  = 15
	focusExtentOffset = 0x20
	focusExtentSize   = 0x10
	focusNameOffset   = SectorSize + 0x20
	focusNameSize     = 0x20
)

func decodeFocus(data []byte) (Table, error) {
	pcount := int(data[focusCountOffset])
	if focusNameOffset+pcount*focusNameSize > len(data) ||
		focusExtentOffset+pcount*focusExtentSize > len(data) {
		return nil, ErrTruncatedHeader
	}

	table := make(Table, 0, pcount)
	for i := 0; i < pcount; i++ {
		field := data[focusNameOffset+i*focusNameSize:][:focusNameSize]
		extent := data[focusExtentOffset+i*focusExtentSize:][:focusExtentSize]

		name := string(bytes.TrimRight(field, "\x00"))
		table = append(table, newEntry(name, read32(extent[0:]), read32(extent[4:])))
	}
	return table, nil
}
