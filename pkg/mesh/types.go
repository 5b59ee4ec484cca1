// Package mesh converts heightmaps into indexed, textured triangle meshes.
package mesh

// DefaultMaxDepth is the largest accepted sample value unless overridden.
// Calibrated against the depth maps this exporter was built for.
const DefaultMaxDepth = 241.0

// DefaultExtent is the half-size of the output cube on X and Y.
const DefaultExtent = 2.0

// RotationDegrees is the fixed rotation about the X axis applied to every vertex.
const RotationDegrees = 180.0

// Options controls the coordinate mapping. Zero fields take defaults.
type Options struct {
	// MaxDepth is the inclusive upper bound for sample values.
	MaxDepth float64
	// Extent is the half-size of the output cube on X and Y.
	Extent float32
}

// DefaultOptions returns the default depth bound and cube extent.
func DefaultOptions() Options {
	return Options{
		MaxDepth: DefaultMaxDepth,
		Extent:   DefaultExtent,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Extent == 0 {
		o.Extent = DefaultExtent
	}
	return o
}

// Vertex is a mesh vertex in output coordinates.
type Vertex struct {
	Position [3]float32
}

// TexCoord is a texture coordinate in [0,1]x[0,1].
type TexCoord struct {
	U, V float64
}

// Face is a triangle. Each corner is a 1-based index shared by the
// vertex and texcoord lists.
type Face struct {
	Corners [3]uint32
}

// Mesh holds one vertex and one texcoord per heightmap sample, in
// row-major scan order, plus two faces per interior quad.
type Mesh struct {
	Width     int
	Height    int
	Vertices  []Vertex
	TexCoords []TexCoord
	Faces     []Face
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// Bounds returns the bounding box of all vertices.
func (m *Mesh) Bounds() Bounds {
	b := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
	for _, v := range m.Vertices {
		updateBounds(&b, v.Position)
	}
	return b
}

// FaceCountFor returns the number of faces Build emits for a width x height grid.
func FaceCountFor(width, height int) int {
	if width < 3 || height < 3 {
		return 0
	}
	return 2 * (width - 2) * (height - 2)
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
