// Package config handles exporter configuration loading and management.
package config

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Faultbox/depthmesh/pkg/formats"
	"github.com/Faultbox/depthmesh/pkg/heightmap"
	"github.com/Faultbox/depthmesh/pkg/mesh"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds heightmap-to-mesh settings.
type ExportConfig struct {
	Encoding  string  `yaml:"encoding"`   // u8, u16 or f32 for raw input
	ByteOrder string  `yaml:"byte_order"` // little or big for raw input
	MaxDepth  float64 `yaml:"max_depth"`  // largest accepted sample value
	Extent    float32 `yaml:"extent"`     // half-size of the output cube on X/Y
	Material  string  `yaml:"material"`   // material name in the OBJ and MTL
}

// WatchConfig holds settings for re-exporting on input changes.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Encoding:  "u16",
			ByteOrder: "little",
			MaxDepth:  mesh.DefaultMaxDepth,
			Extent:    mesh.DefaultExtent,
			Material:  formats.DefaultMaterialName,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that every setting can be used for an export.
func (c *Config) Validate() error {
	if _, err := c.Export.SampleEncoding(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Export.Order(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !(c.Export.MaxDepth > 0) {
		return fmt.Errorf("%w: max_depth must be positive, got %g", ErrInvalidConfig, c.Export.MaxDepth)
	}
	if !(c.Export.Extent > 0) {
		return fmt.Errorf("%w: extent must be positive, got %g", ErrInvalidConfig, c.Export.Extent)
	}
	if strings.TrimSpace(c.Export.Material) == "" || strings.ContainsAny(c.Export.Material, " \t\n") {
		return fmt.Errorf("%w: material name %q must be a single word", ErrInvalidConfig, c.Export.Material)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: negative watch debounce %v", ErrInvalidConfig, c.Watch.Debounce)
	}
	return nil
}

// SampleEncoding returns the configured raw sample encoding.
func (e ExportConfig) SampleEncoding() (heightmap.Encoding, error) {
	return heightmap.ParseEncoding(e.Encoding)
}

// Order returns the configured raw byte order.
func (e ExportConfig) Order() (binary.ByteOrder, error) {
	switch strings.ToLower(e.ByteOrder) {
	case "", "little", "le":
		return binary.LittleEndian, nil
	case "big", "be":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", e.ByteOrder)
	}
}

// MeshOptions returns the coordinate mapping options.
func (e ExportConfig) MeshOptions() mesh.Options {
	return mesh.Options{
		MaxDepth: e.MaxDepth,
		Extent:   e.Extent,
	}
}
