package formats

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/depthmesh/pkg/mesh"
)

// WriteOBJ writes m as a Wavefront OBJ stream.
//
// Line order is fixed: the material library reference, every vertex,
// every texcoord, the material selection, then every face as v/vt pairs.
// mtlLib names the companion material file; material is the name selected
// with usemtl.
func WriteOBJ(w io.Writer, m *mesh.Mesh, mtlLib, material string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "mtllib %s\n", mtlLib)

	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %f %f %f\n", v.Position[0], v.Position[1], v.Position[2])
	}

	// One texcoord per vertex, so a single index addresses both.
	for _, tc := range m.TexCoords {
		fmt.Fprintf(bw, "vt %f %f\n", tc.U, tc.V)
	}

	fmt.Fprintf(bw, "usemtl %s\n", material)

	for _, f := range m.Faces {
		a, b, c := f.Corners[0], f.Corners[1], f.Corners[2]
		fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
	}

	// bufio keeps the first write error; Flush reports it.
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: obj: %w", ErrWrite, err)
	}
	return nil
}
