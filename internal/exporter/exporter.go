// Package exporter turns heightmaps into OBJ/MTL file pairs.
//
// The mesh is built before any output is opened, so a heightmap that breaks
// the depth contract panics without leaving files behind. Write failures are
// returned as errors; files written before the failure are not removed.
package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/depthmesh/internal/logger"
	"github.com/Faultbox/depthmesh/pkg/formats"
	"github.com/Faultbox/depthmesh/pkg/heightmap"
	"github.com/Faultbox/depthmesh/pkg/mesh"
)

// Request describes one export.
type Request struct {
	// Texture is written verbatim into the map_Ka/map_Kd/map_Ks lines.
	Texture string
	// MaterialLib is the material file name referenced by mtllib.
	MaterialLib string
	// Material is the material name; empty means "default".
	Material string
	Options  mesh.Options
}

// Result summarizes a finished export.
type Result struct {
	OBJPath  string
	MTLPath  string
	Vertices int
	Faces    int
	Bounds   mesh.Bounds
}

func (r Request) material() formats.Material {
	mat := formats.DefaultMaterial(r.Texture)
	if r.Material != "" {
		mat.Name = r.Material
	}
	return mat
}

// WriteStreams builds the mesh for hm and writes the OBJ stream to objW and
// the MTL stream to mtlW.
func WriteStreams(objW, mtlW io.Writer, hm *heightmap.Heightmap, req Request) (*Result, error) {
	m := mesh.Build(hm, req.Options)
	err := writeMesh(m, req.MaterialLib, req.material(), streamSink(objW), streamSink(mtlW))
	if err != nil {
		return nil, err
	}
	return newResult(m), nil
}

// sink runs write against one output.
type sink func(write func(io.Writer) error) error

// writeMesh writes the OBJ stream and then the MTL stream for one material.
func writeMesh(m *mesh.Mesh, mtlLib string, mat formats.Material, obj, mtl sink) error {
	err := obj(func(w io.Writer) error {
		return formats.WriteOBJ(w, m, mtlLib, mat.Name)
	})
	if err != nil {
		return err
	}
	return mtl(func(w io.Writer) error {
		return formats.WriteMTL(w, mat)
	})
}

func newResult(m *mesh.Mesh) *Result {
	return &Result{
		Vertices: m.VertexCount(),
		Faces:    m.FaceCount(),
		Bounds:   m.Bounds(),
	}
}

// Paths returns the OBJ and MTL paths for an output base name.
// A trailing .obj or .mtl extension on base is dropped.
func Paths(base string) (objPath, mtlPath string) {
	switch strings.ToLower(filepath.Ext(base)) {
	case ".obj", ".mtl":
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + ".obj", base + ".mtl"
}

// ExportFiles writes <base>.obj and <base>.mtl for hm.
// req.MaterialLib is ignored; the OBJ references the MTL by its file name.
func ExportFiles(hm *heightmap.Heightmap, base string, req Request) (*Result, error) {
	log := logger.Named("exporter")
	start := time.Now()

	objPath, mtlPath := Paths(base)
	req.MaterialLib = filepath.Base(mtlPath)

	m := mesh.Build(hm, req.Options)

	if dir := filepath.Dir(objPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}

	err := writeMesh(m, req.MaterialLib, req.material(), fileSink(objPath), fileSink(mtlPath))
	if err != nil {
		return nil, err
	}

	res := newResult(m)
	res.OBJPath, res.MTLPath = objPath, mtlPath

	log.Info("exported mesh",
		zap.String("obj", objPath),
		zap.String("mtl", mtlPath),
		zap.Int("vertices", res.Vertices),
		zap.Int("faces", res.Faces),
		zap.Duration("took", time.Since(start)),
	)
	log.Debug("mesh bounds",
		zap.Float32s("min", res.Bounds.Min[:]),
		zap.Float32s("max", res.Bounds.Max[:]),
	)
	return res, nil
}

func streamSink(w io.Writer) sink {
	return func(write func(io.Writer) error) error {
		return write(w)
	}
}

func fileSink(path string) sink {
	return func(write func(io.Writer) error) error {
		return writeFile(path, write)
	}
}

// writeFile creates path, runs write, and closes the file, reporting write
// and close failures together.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
		if err != nil {
			err = fmt.Errorf("writing %s: %w", path, err)
		}
	}()
	return write(f)
}
