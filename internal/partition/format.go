package partition

import (
	"bytes"
	"fmt"
)

// Format identifies one of the known partition table layouts.
type Format int

const (
	// FormatUnknown is the zero value; no decoder is associated with it.
	FormatUnknown Format = iota
	// FormatFocus is the Parsons Engineering Focus IDE controller layout.
	FormatFocus
	// FormatZip is the Zip Technology controller layout, identical to Focus
	// apart from the signature.
	FormatZip
	// FormatMicroDrive is the ReactiveMicro MicroDrive controller layout.
	FormatMicroDrive
)

// Formats lists the known layouts in detection priority order.
var Formats = []Format{FormatFocus, FormatZip, FormatMicroDrive}

var formatNames = map[Format]string{
	FormatUnknown:    "unknown",
	FormatFocus:      "Focus",
	FormatZip:        "Zip",
	FormatMicroDrive: "MicroDrive",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Detect reports whether header carries this format's signature.
func (f Format) Detect(header []byte) bool {
	switch f {
	case FormatFocus:
		return hasSignature(header, focusSignature)
	case FormatZip:
		return hasSignature(header, zipSignature)
	case FormatMicroDrive:
		return isMicroDrive(header)
	}
	return false
}

// Decode parses the partition table from header. The header must be at least
// HeaderSize bytes.
func (f Format) Decode(header []byte) (Table, error) {
	if len(header) < HeaderSize {
		return nil, ErrShortHeader
	}

	var (
		table Table
		err   error
	)
	switch f {
	case FormatFocus, FormatZip:
		table, err = decodeFocus(header)
	case FormatMicroDrive:
		table, err = decodeMicroDrive(header)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s table: %w", f, err)
	}
	return table, nil
}

// Detect returns the first format in priority order whose signature
// matches header.
func Detect(header []byte) (Format, error) {
	if len(header) < HeaderSize {
		return FormatUnknown, ErrShortHeader
	}
	for _, f := range Formats {
		if f.Detect(header) {
			return f, nil
		}
	}
	return FormatUnknown, ErrUnknownFormat
}

// Decode detects the format of header and decodes its partition table.
func Decode(header []byte) (Format, Table, error) {
	f, err := Detect(header)
	if err != nil {
		return FormatUnknown, nil, err
	}
	table, err := f.Decode(header)
	if err != nil {
		return FormatUnknown, nil, err
	}
	return f, table, nil
}

// Both signatures are compared over 15 bytes, including the NUL the
// controllers store after the 14 visible characters.
var (
	focusSignature = []byte("Parsons Engin.\x00")
	zipSignature   = []byte("Zip Technolog.\x00")
)

func hasSignature(data, signature []byte) bool {
	return len(data) >= len(signature) && bytes.Equal(data[:len(signature)], signature)
}

func isMicroDrive(data []byte) bool {
	return len(data) >= 0x24 && data[0] == 0xca && data[1] == 0xcc && read32(data[0x20:]) == 256
}
