package formats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultMaterialName is the material referenced by exported meshes.
const DefaultMaterialName = "default"

// Material is a single MTL material whose ambient, diffuse and specular
// maps all reference the same texture.
type Material struct {
	Name     string
	Ambient  [3]float64 // Ka
	Diffuse  [3]float64 // Kd
	Specular [3]float64 // Ks
	Dissolve float64    // d, 1 is fully opaque
	Illum    int        // illumination model
	Texture  string
}

// DefaultMaterial returns the fixed material used for heightmap exports.
// texture is written verbatim; it is not checked for existence.
func DefaultMaterial(texture string) Material {
	return Material{
		Name:     DefaultMaterialName,
		Ambient:  [3]float64{1, 1, 1},
		Diffuse:  [3]float64{1, 1, 1},
		Specular: [3]float64{0.1, 0.1, 0.1},
		Dissolve: 1,
		Illum:    2,
		Texture:  texture,
	}
}

// WriteMTL writes mat as a Wavefront MTL stream.
func WriteMTL(w io.Writer, mat Material) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "newmtl %s\n", mat.Name)
	fmt.Fprintf(bw, "Ka %s\n", formatColor(mat.Ambient))
	fmt.Fprintf(bw, "Kd %s\n", formatColor(mat.Diffuse))
	fmt.Fprintf(bw, "Ks %s\n", formatColor(mat.Specular))
	fmt.Fprintf(bw, "d %s\n", formatCoef(mat.Dissolve))
	fmt.Fprintf(bw, "illum %d\n", mat.Illum)
	fmt.Fprintf(bw, "map_Ka %s\n", mat.Texture)
	fmt.Fprintf(bw, "map_Kd %s\n", mat.Texture)
	fmt.Fprintf(bw, "map_Ks %s\n", mat.Texture)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: mtl: %w", ErrWrite, err)
	}
	return nil
}

func formatColor(c [3]float64) string {
	return formatCoef(c[0]) + " " + formatCoef(c[1]) + " " + formatCoef(c[2])
}

// formatCoef prints the shortest form, always with a decimal point (1 -> "1.0").
func formatCoef(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
