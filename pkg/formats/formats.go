// Package formats reads depth inputs and writes Wavefront OBJ/MTL outputs.
package formats

import "errors"

// ErrWrite reports that an output stream could not be written.
var ErrWrite = errors.New("write failed")

// Note: OBJ mesh output is implemented in obj.go
// Note: MTL material output is implemented in mtl.go
// Note: raw and image depth input is implemented in depth.go
