package exporter

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/depthmesh/pkg/formats"
	"github.com/Faultbox/depthmesh/pkg/heightmap"
)

// ErrMissingDimensions is returned when a raw input has no width/height.
var ErrMissingDimensions = errors.New("raw input needs width and height")

// RawLayout describes a headerless sample file.
type RawLayout struct {
	Width     int
	Height    int
	Encoding  heightmap.Encoding
	ByteOrder binary.ByteOrder
}

// IsImage reports whether path is decoded as a depth image rather than raw samples.
func IsImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".tif", ".tiff":
		return true
	}
	return false
}

// Load reads a depth input. PNG and TIFF files carry their own size and
// encoding; anything else is read as raw samples described by layout.
func Load(path string, layout RawLayout) (*heightmap.Heightmap, error) {
	if IsImage(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		hm, err := formats.DecodeImage(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return hm, nil
	}

	if layout.Width <= 0 || layout.Height <= 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingDimensions)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	hm, err := formats.DecodeRaw(data, layout.Width, layout.Height, layout.Encoding, layout.ByteOrder)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return hm, nil
}
