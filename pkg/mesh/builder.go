package mesh

import (
	"fmt"
	"math"

	"github.com/Faultbox/depthmesh/pkg/heightmap"
)

// Build creates a mesh from a heightmap.
//
// It makes three passes over the grid in row-major order: one vertex per
// sample, one texcoord per sample, then two faces for every quad whose
// lower-right corner is an interior sample. Panics if either dimension is
// below 2 or a sample violates the depth bound.
func Build(hm *heightmap.Heightmap, opts Options) *Mesh {
	width, height := hm.Width, hm.Height
	if width < 2 || height < 2 {
		panic(fmt.Sprintf("mesh: heightmap %dx%d needs at least 2 rows and 2 columns", width, height))
	}
	if uint64(width)*uint64(height) > math.MaxUint32 {
		panic(fmt.Sprintf("mesh: heightmap %dx%d exceeds the 32-bit index space", width, height))
	}
	opts = opts.withDefaults()

	m := &Mesh{
		Width:     width,
		Height:    height,
		Vertices:  make([]Vertex, 0, width*height),
		TexCoords: make([]TexCoord, 0, width*height),
		Faces:     make([]Face, 0, FaceCountFor(width, height)),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			value := hm.Sample(y*width + x)
			m.Vertices = append(m.Vertices, MapPosition(x, y, value, width, height, opts))
		}
	}
	nverts := uint32(len(m.Vertices))

	// V is flipped so texture row 0 maps to the top of the image.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.TexCoords = append(m.TexCoords, TexCoord{
				U: float64(x) / float64(width-1),
				V: float64(height-1-y) / float64(height-1),
			})
		}
	}

	w := uint32(width)
	for y := uint32(1); y < uint32(height)-1; y++ {
		for x := uint32(1); x < w-1; x++ {
			// (x, y) is the lower-right corner of the quad; +1 for 1-based indices.
			topLeft := (y-1)*w + (x - 1) + 1
			topRight := (y-1)*w + x + 1
			bottomLeft := y*w + (x - 1) + 1
			bottomRight := y*w + x + 1

			for _, idx := range [...]uint32{topLeft, topRight, bottomLeft, bottomRight} {
				if idx > nverts {
					panic(fmt.Sprintf("mesh: face index %d exceeds vertex count %d", idx, nverts))
				}
			}

			m.Faces = append(m.Faces,
				Face{Corners: [3]uint32{bottomLeft, bottomRight, topLeft}},
				Face{Corners: [3]uint32{bottomRight, topRight, topLeft}},
			)
		}
	}

	return m
}
