package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	// Registered decoders for depth images.
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"github.com/Faultbox/depthmesh/pkg/heightmap"
)

// Depth input errors.
var (
	ErrUnsupportedImage = errors.New("unsupported depth image: expected 8-bit or 16-bit grayscale")
	ErrDecodeImage      = errors.New("decoding depth image")
)

// DecodeRaw wraps a headerless sample buffer as a heightmap.
// The buffer must hold exactly width*height samples of enc.
func DecodeRaw(data []byte, width, height int, enc heightmap.Encoding, order binary.ByteOrder) (*heightmap.Heightmap, error) {
	hm, err := heightmap.New(width, height, enc, data, order)
	if err != nil {
		return nil, fmt.Errorf("raw depth: %w", err)
	}
	return hm, nil
}

// DecodeImage reads a grayscale PNG or TIFF depth image.
// 8-bit images yield UnsignedByte samples, 16-bit images UnsignedShort
// samples in big-endian order (the layout image.Gray16 stores).
func DecodeImage(r io.Reader) (*heightmap.Heightmap, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeImage, err)
	}

	switch src := img.(type) {
	case *image.Gray:
		return grayToHeightmap(src.Pix, src.Stride, src.Rect, 1, heightmap.UnsignedByte, nil)
	case *image.Gray16:
		return grayToHeightmap(src.Pix, src.Stride, src.Rect, 2, heightmap.UnsignedShort, binary.BigEndian)
	default:
		return nil, fmt.Errorf("%w: %s image with %T pixels", ErrUnsupportedImage, format, img)
	}
}

// grayToHeightmap copies pixel rows into a tightly packed buffer,
// dropping any stride padding.
func grayToHeightmap(pix []byte, stride int, rect image.Rectangle, bpp int,
	enc heightmap.Encoding, order binary.ByteOrder) (*heightmap.Heightmap, error) {

	width, height := rect.Dx(), rect.Dy()
	rowSize := width * bpp
	data := make([]byte, 0, rowSize*height)
	for y := 0; y < height; y++ {
		start := y * stride
		data = append(data, pix[start:start+rowSize]...)
	}
	return heightmap.New(width, height, enc, data, order)
}
