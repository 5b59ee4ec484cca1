package exporter

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/depthmesh/pkg/formats"
	"github.com/Faultbox/depthmesh/pkg/heightmap"
	"github.com/Faultbox/depthmesh/pkg/mesh"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func createTestHeightmap(t *testing.T, width, height int, fill uint8) *heightmap.Heightmap {
	t.Helper()
	data := bytes.Repeat([]byte{fill}, width*height)
	hm, err := heightmap.New(width, height, heightmap.UnsignedByte, data, nil)
	if err != nil {
		t.Fatalf("heightmap.New failed: %v", err)
	}
	return hm
}

func TestWriteStreams_3x3(t *testing.T) {
	var obj, mtl bytes.Buffer
	req := Request{Texture: "scan.png", MaterialLib: "scan.mtl", Options: mesh.DefaultOptions()}

	res, err := WriteStreams(&obj, &mtl, createTestHeightmap(t, 3, 3, 0), req)
	if err != nil {
		t.Fatalf("WriteStreams failed: %v", err)
	}
	if res.Vertices != 9 || res.Faces != 2 {
		t.Errorf("expected 9 vertices and 2 faces, got %d and %d", res.Vertices, res.Faces)
	}

	lines := strings.Split(obj.String(), "\n")
	if lines[0] != "mtllib scan.mtl" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if lines[1] != "v -2.000000 2.000000 -0.000000" {
		t.Errorf("unexpected first vertex %q", lines[1])
	}

	if got := strings.Count(mtl.String(), "scan.png"); got != 3 {
		t.Errorf("expected texture in 3 map lines, got %d", got)
	}
}

func TestWriteStreams_Idempotent(t *testing.T) {
	hm := createTestHeightmap(t, 6, 5, 17)
	req := Request{Texture: "t.png", MaterialLib: "t.mtl"}

	var obj1, mtl1, obj2, mtl2 bytes.Buffer
	if _, err := WriteStreams(&obj1, &mtl1, hm, req); err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	if _, err := WriteStreams(&obj2, &mtl2, hm, req); err != nil {
		t.Fatalf("second export failed: %v", err)
	}

	if !bytes.Equal(obj1.Bytes(), obj2.Bytes()) || !bytes.Equal(mtl1.Bytes(), mtl2.Bytes()) {
		t.Error("repeated exports produced different streams")
	}
}

func TestWriteStreams_CustomMaterial(t *testing.T) {
	var obj, mtl bytes.Buffer
	req := Request{Texture: "t.png", MaterialLib: "t.mtl", Material: "terrain"}
	if _, err := WriteStreams(&obj, &mtl, createTestHeightmap(t, 3, 3, 0), req); err != nil {
		t.Fatalf("WriteStreams failed: %v", err)
	}

	if !strings.Contains(obj.String(), "usemtl terrain\n") {
		t.Error("expected usemtl terrain in OBJ")
	}
	if !strings.HasPrefix(mtl.String(), "newmtl terrain\n") {
		t.Error("expected newmtl terrain in MTL")
	}
}

func TestWriteStreams_Failures(t *testing.T) {
	hm := createTestHeightmap(t, 3, 3, 0)

	_, err := WriteStreams(failingWriter{}, &bytes.Buffer{}, hm, Request{})
	if !errors.Is(err, formats.ErrWrite) {
		t.Errorf("expected ErrWrite for OBJ sink, got %v", err)
	}

	_, err = WriteStreams(&bytes.Buffer{}, failingWriter{}, hm, Request{})
	if !errors.Is(err, formats.ErrWrite) {
		t.Errorf("expected ErrWrite for MTL sink, got %v", err)
	}
}

func TestWriteStreams_ContractViolationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for depth above the bound")
		}
	}()
	WriteStreams(&bytes.Buffer{}, &bytes.Buffer{}, createTestHeightmap(t, 3, 3, 250), Request{})
}

func TestPaths(t *testing.T) {
	tests := []struct {
		base, obj, mtl string
	}{
		{"out/scan", "out/scan.obj", "out/scan.mtl"},
		{"out/scan.obj", "out/scan.obj", "out/scan.mtl"},
		{"scan.MTL", "scan.obj", "scan.mtl"},
		{"scan.v2", "scan.v2.obj", "scan.v2.mtl"},
	}
	for _, tc := range tests {
		obj, mtl := Paths(tc.base)
		if obj != tc.obj || mtl != tc.mtl {
			t.Errorf("Paths(%q) = (%q, %q), expected (%q, %q)", tc.base, obj, mtl, tc.obj, tc.mtl)
		}
	}
}

func TestExportFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "nested", "scan")

	res, err := ExportFiles(createTestHeightmap(t, 4, 4, 10), base, Request{Texture: "scan.png"})
	if err != nil {
		t.Fatalf("ExportFiles failed: %v", err)
	}
	if res.Faces != mesh.FaceCountFor(4, 4) {
		t.Errorf("expected %d faces, got %d", mesh.FaceCountFor(4, 4), res.Faces)
	}

	obj, err := os.ReadFile(res.OBJPath)
	if err != nil {
		t.Fatalf("failed to read OBJ: %v", err)
	}
	if !strings.HasPrefix(string(obj), "mtllib scan.mtl\n") {
		t.Errorf("OBJ should reference the MTL by file name, got %q", strings.SplitN(string(obj), "\n", 2)[0])
	}

	mtl, err := os.ReadFile(res.MTLPath)
	if err != nil {
		t.Fatalf("failed to read MTL: %v", err)
	}
	if !strings.Contains(string(mtl), "map_Kd scan.png\n") {
		t.Error("MTL missing diffuse map")
	}
}

func TestExportFiles_MatchesStreams(t *testing.T) {
	hm := createTestHeightmap(t, 5, 4, 0)
	req := Request{Texture: "scan.png", Material: "terrain"}

	res, err := ExportFiles(hm, filepath.Join(t.TempDir(), "scan"), req)
	if err != nil {
		t.Fatalf("ExportFiles failed: %v", err)
	}

	var obj, mtl bytes.Buffer
	req.MaterialLib = "scan.mtl"
	if _, err := WriteStreams(&obj, &mtl, hm, req); err != nil {
		t.Fatalf("WriteStreams failed: %v", err)
	}

	for path, want := range map[string][]byte{res.OBJPath: obj.Bytes(), res.MTLPath: mtl.Bytes()} {
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read %s: %v", path, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("%s differs from the streamed output", filepath.Base(path))
		}
	}
}

func TestExportFiles_PanicLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "bad")

	func() {
		defer func() { recover() }()
		ExportFiles(createTestHeightmap(t, 3, 3, 255), base, Request{})
	}()

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no output files, found %d", len(entries))
	}
}

func TestExportFiles_CreateFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory where the OBJ file should go makes os.Create fail.
	if err := os.Mkdir(filepath.Join(dir, "scan.obj"), 0755); err != nil {
		t.Fatalf("failed to create blocking dir: %v", err)
	}

	_, err := ExportFiles(createTestHeightmap(t, 3, 3, 0), filepath.Join(dir, "scan"), Request{})
	if err == nil {
		t.Error("expected error when the OBJ path is a directory")
	}
}

func TestLoad_Raw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth.raw")
	data := make([]byte, 0, 12)
	for _, v := range []uint16{0, 50, 100, 150, 200, 241} {
		data = binary.BigEndian.AppendUint16(data, v)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write raw input: %v", err)
	}

	layout := RawLayout{Width: 3, Height: 2, Encoding: heightmap.UnsignedShort, ByteOrder: binary.BigEndian}
	hm, err := Load(path, layout)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := hm.At(2, 1); got != 241 {
		t.Errorf("At(2, 1) = %v, expected 241", got)
	}

	if _, err := Load(path, RawLayout{Encoding: heightmap.UnsignedShort}); !errors.Is(err, ErrMissingDimensions) {
		t.Errorf("expected ErrMissingDimensions, got %v", err)
	}

	layout.Width = 4
	if _, err := Load(path, layout); !errors.Is(err, heightmap.ErrBufferSize) {
		t.Errorf("expected ErrBufferSize, got %v", err)
	}
}

func TestLoad_PNG(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 3))
	img.SetGray(1, 1, color.Gray{Y: 120})

	path := filepath.Join(t.TempDir(), "depth.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create png: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	f.Close()

	hm, err := Load(path, RawLayout{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if hm.Width != 3 || hm.Height != 3 || hm.At(1, 1) != 120 {
		t.Errorf("unexpected heightmap %dx%d center %v", hm.Width, hm.Height, hm.At(1, 1))
	}
}
