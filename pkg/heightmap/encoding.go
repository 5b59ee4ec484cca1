package heightmap

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Encoding is the element type of a raw depth buffer.
type Encoding uint8

// Supported sample encodings.
const (
	UnsignedByte  Encoding = iota + 1 // 1-byte unsigned integer
	UnsignedShort                     // 2-byte unsigned integer
	Float32                           // 4-byte IEEE-754 single precision
)

// Size returns the number of bytes per sample.
// It panics for an encoding outside the supported set.
func (e Encoding) Size() int {
	switch e {
	case UnsignedByte:
		return 1
	case UnsignedShort:
		return 2
	case Float32:
		return 4
	default:
		panic(fmt.Sprintf("heightmap: unsupported encoding %d", uint8(e)))
	}
}

// Valid reports whether e is one of the supported encodings.
func (e Encoding) Valid() bool {
	return e == UnsignedByte || e == UnsignedShort || e == Float32
}

// String returns the short name used in configs and flags.
func (e Encoding) String() string {
	switch e {
	case UnsignedByte:
		return "u8"
	case UnsignedShort:
		return "u16"
	case Float32:
		return "f32"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(e))
	}
}

// ParseEncoding converts a name such as "u16" or "float32" to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u8", "uint8", "byte":
		return UnsignedByte, nil
	case "u16", "uint16", "short":
		return UnsignedShort, nil
	case "f32", "float32", "float":
		return Float32, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
	}
}

// ReadSample returns the sample at element index in data, widened to float64.
//
// The encoding is a closed set checked by the caller, so an unknown encoding
// panics rather than falling back to another interpretation of the bytes.
// An index past the end of data also panics.
func ReadSample(data []byte, enc Encoding, order binary.ByteOrder, index int) float64 {
	size := enc.Size()
	off := index * size
	if index < 0 || off+size > len(data) {
		panic(fmt.Sprintf("heightmap: sample index %d out of range for %d bytes of %s", index, len(data), enc))
	}
	if order == nil {
		order = binary.LittleEndian
	}

	switch enc {
	case UnsignedByte:
		return float64(data[off])
	case UnsignedShort:
		return float64(order.Uint16(data[off:]))
	case Float32:
		return float64(math.Float32frombits(order.Uint32(data[off:])))
	}
	panic("unreachable")
}
