// Package heightmap provides typed access to raw depth/height sample grids.
package heightmap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Heightmap errors.
var (
	ErrUnknownEncoding   = errors.New("unknown sample encoding")
	ErrInvalidDimensions = errors.New("invalid heightmap dimensions")
	ErrBufferSize        = errors.New("buffer size does not match dimensions")
)

// Heightmap is a read-only row-major grid of scalar samples.
// Row index is Y, increasing downward as supplied.
type Heightmap struct {
	Width    int
	Height   int
	Encoding Encoding
	Data     []byte

	// ByteOrder applies to multi-byte encodings. Nil means little-endian.
	ByteOrder binary.ByteOrder
}

// New wraps data as a heightmap after checking that its length matches
// width*height samples of the given encoding.
func New(width, height int, enc Encoding, data []byte, order binary.ByteOrder) (*Heightmap, error) {
	if !enc.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEncoding, uint8(enc))
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if want := width * height * enc.Size(); len(data) != want {
		return nil, fmt.Errorf("%w: expected %d bytes for %dx%d %s, got %d",
			ErrBufferSize, want, width, height, enc, len(data))
	}
	if order == nil {
		order = binary.LittleEndian
	}
	return &Heightmap{
		Width:     width,
		Height:    height,
		Encoding:  enc,
		Data:      data,
		ByteOrder: order,
	}, nil
}

// Len returns the number of samples (width*height).
func (h *Heightmap) Len() int {
	return h.Width * h.Height
}

// Sample returns the sample at row-major index.
func (h *Heightmap) Sample(index int) float64 {
	return ReadSample(h.Data, h.Encoding, h.ByteOrder, index)
}

// At returns the sample at column x, row y.
// Panics if coordinates are out of bounds.
func (h *Heightmap) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= h.Width || y >= h.Height {
		panic(fmt.Sprintf("heightmap: coordinates (%d, %d) outside %dx%d grid", x, y, h.Width, h.Height))
	}
	return h.Sample(y*h.Width + x)
}

// Range returns the smallest and largest sample values.
func (h *Heightmap) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < h.Len(); i++ {
		v := h.Sample(i)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
