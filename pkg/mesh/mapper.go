package mesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Lerp maps v from [imin, imax] onto [omin, omax].
// Panics if v lies outside [imin, imax]; the map never clamps.
func Lerp(v, imin, imax, omin, omax float32) float32 {
	if !(imin <= v && v <= imax) {
		panic(fmt.Sprintf("mesh: lerp input %g outside [%g, %g]", v, imin, imax))
	}
	// The conversion keeps the multiply and add unfused on every platform.
	return omin + float32((v-imin)*((omax-omin)/(imax-imin)))
}

// rotation is the fixed rotation about X applied after normalization.
// The angle is a constant expression so it rounds to exactly math.Pi.
var rotation = mgl64.Rotate3DX(RotationDegrees * math.Pi / 180)

// MapPosition converts grid position (x, y) and its sample value into
// output coordinates.
//
// X and Y are centered on the grid midpoint and rescaled into
// [-Extent, Extent]; then (Y, value) is rotated about the X axis.
// Panics if value lies outside [0, MaxDepth].
func MapPosition(x, y int, value float64, width, height int, opts Options) Vertex {
	opts = opts.withDefaults()
	if !(value >= 0 && value <= opts.MaxDepth) {
		panic(fmt.Sprintf("mesh: depth %g at (%d, %d) outside [0, %g]", value, x, y, opts.MaxDepth))
	}

	w := float32(width)
	h := float32(height)
	fx := float32(x) - w/2
	fy := float32(y) - h/2

	fx = Lerp(fx, -w/2, w/2, -opts.Extent, opts.Extent)
	fy = Lerp(fy, -h/2, h/2, -opts.Extent, opts.Extent)

	p := rotation.Mul3x1(mgl64.Vec3{float64(fx), float64(fy), value})
	// Adding zero turns a negative zero into +0, so a zero sample on the
	// centre row prints as 0.000000.
	ry := 0 + p.Y()
	rz := 0 + p.Z()
	return Vertex{Position: [3]float32{fx, float32(ry), float32(rz)}}
}
