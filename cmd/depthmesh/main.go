// depthmesh is a CLI utility that converts depth maps into textured OBJ meshes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/depthmesh/internal/config"
	"github.com/Faultbox/depthmesh/internal/exporter"
	"github.com/Faultbox/depthmesh/internal/logger"
	"github.com/Faultbox/depthmesh/internal/watch"
	"github.com/Faultbox/depthmesh/pkg/heightmap"
	"github.com/Faultbox/depthmesh/pkg/mesh"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Contract violations in the mesh core panic; report them as fatal.
	defer func() {
		if r := recover(); r != nil {
			logger.Fatal("export aborted", zap.Any("reason", r))
		}
	}()

	switch command {
	case "export", "x":
		cmdExport(cfg, args)
	case "info":
		cmdInfo(cfg, args)
	case "watch", "w":
		cmdWatch(cfg, args)
	case "config":
		cmdConfig(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`depthmesh - depth map to textured OBJ mesh converter

Usage:
  depthmesh [global options] <command> [options]

Commands:
  export <depth> <texture> [-o base]   Write <base>.obj and <base>.mtl
  info <depth>                         Show dimensions, depth range and mesh size
  watch <depth> <texture> [-o base]    Re-export whenever the depth file changes
  config init [path] [-force]          Write a config file with default settings

Raw depth files (anything but .png/.tif/.tiff) need -w and -h.

Global options:
  -config <path>       Config file (default ./config.yaml or user config dir)
  -debug               Enable debug logging
  -log-file <path>     Also write logs to a rotating file
  -encoding <u8|u16|f32>
  -byte-order <little|big>
  -max-depth <value>   Largest accepted sample value (default 241)

Examples:
  depthmesh export scan.png scan_rgb.png
  depthmesh -encoding f32 export -w 640 -h 480 -o out/frame frame.bin frame.jpg
  depthmesh info -w 640 -h 480 frame.raw`)
}

// inputFlags registers the raw layout and output flags shared by commands.
type inputFlags struct {
	width  *int
	height *int
	output *string
}

func newInputFlags(fs *flag.FlagSet, withOutput bool) inputFlags {
	f := inputFlags{
		width:  fs.Int("w", 0, "Raw input width in samples"),
		height: fs.Int("h", 0, "Raw input height in samples"),
	}
	if withOutput {
		f.output = fs.String("o", "", "Output base path (default: input path without extension)")
	}
	return f
}

func (f inputFlags) layout(cfg *config.Config) exporter.RawLayout {
	// Validate already checked these.
	enc, _ := cfg.Export.SampleEncoding()
	order, _ := cfg.Export.Order()
	return exporter.RawLayout{
		Width:     *f.width,
		Height:    *f.height,
		Encoding:  enc,
		ByteOrder: order,
	}
}

func (f inputFlags) base(input string) string {
	if f.output != nil && *f.output != "" {
		return *f.output
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

func request(cfg *config.Config, texture string) exporter.Request {
	return exporter.Request{
		Texture:  texture,
		Material: cfg.Export.Material,
		Options:  cfg.Export.MeshOptions(),
	}
}

func cmdExport(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	in := newInputFlags(fs, true)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: depthmesh export [-w N -h N] [-o base] <depth> <texture>")
		os.Exit(1)
	}
	input, texture := fs.Arg(0), fs.Arg(1)

	hm, err := exporter.Load(input, in.layout(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := checkGrid(hm); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	res, err := exporter.ExportFiles(hm, in.base(input), request(cfg, texture))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported: %s (%d vertices, %d faces)\n", res.OBJPath, res.Vertices, res.Faces)
	fmt.Printf("Material: %s\n", res.MTLPath)
}

func cmdInfo(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	in := newInputFlags(fs, false)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: depthmesh info [-w N -h N] <depth>")
		os.Exit(1)
	}

	hm, err := exporter.Load(fs.Arg(0), in.layout(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lo, hi := hm.Range()
	fits := lo >= 0 && hi <= cfg.Export.MaxDepth

	fmt.Printf("Input:    %s\n", fs.Arg(0))
	fmt.Printf("Size:     %dx%d (%d samples)\n", hm.Width, hm.Height, hm.Len())
	fmt.Printf("Encoding: %s\n", hm.Encoding)
	fmt.Printf("Depth:    %g .. %g\n", lo, hi)
	fmt.Printf("Bound:    [0, %g] (fits: %t)\n", cfg.Export.MaxDepth, fits)
	fmt.Printf("Mesh:     %d vertices, %d faces\n", hm.Len(), mesh.FaceCountFor(hm.Width, hm.Height))
}

func cmdWatch(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	in := newInputFlags(fs, true)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: depthmesh watch [-w N -h N] [-o base] <depth> <texture>")
		os.Exit(1)
	}
	input, texture := fs.Arg(0), fs.Arg(1)
	base := in.base(input)
	layout := in.layout(cfg)
	req := request(cfg, texture)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := watch.Run(ctx, input, cfg.Watch.Debounce, func(path string) error {
		hm, err := exporter.Load(path, layout)
		if err != nil {
			return err
		}
		if err := checkGrid(hm); err != nil {
			return err
		}
		_, err = exporter.ExportFiles(hm, base, req)
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdConfig(cfg *config.Config, args []string) {
	if len(args) < 1 || args[0] != "init" {
		fmt.Fprintln(os.Stderr, "Usage: depthmesh config init [-force] [path]")
		os.Exit(1)
	}

	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	fs.Parse(args[1:])

	var (
		path string
		err  error
	)
	if fs.NArg() > 0 {
		path = fs.Arg(0)
		err = cfg.SaveTo(path, *force)
	} else {
		path, err = cfg.Save(*force)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote config: %s\n", path)
}

// checkGrid rejects grids the mesh builder cannot tessellate, so a user
// passing a single-row file gets an error instead of a panic.
func checkGrid(hm *heightmap.Heightmap) error {
	if hm.Width < 2 || hm.Height < 2 {
		return fmt.Errorf("%w: %dx%d, need at least 2x2", heightmap.ErrInvalidDimensions, hm.Width, hm.Height)
	}
	return nil
}
