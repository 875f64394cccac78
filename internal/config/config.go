// Package config handles bndtool configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all tool settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Preview PreviewConfig `yaml:"preview"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig controls which files an export writes and how the host
// mesh is evaluated.
type ExportConfig struct {
	Binary         bool `yaml:"binary"`          // also write .bbnd
	Terrain        bool `yaml:"terrain"`         // also write .ter
	ApplyModifiers bool `yaml:"apply_modifiers"` // evaluate the modifier stack
	Triangulate    bool `yaml:"triangulate"`     // split quads after evaluation
}

// PreviewConfig controls the terrain grid debug image.
type PreviewConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Format        string `yaml:"format"` // png, webp or tga
	PixelsPerUnit int    `yaml:"pixels_per_unit"`
	MaxSize       int    `yaml:"max_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Preview formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Binary:         true,
			Terrain:        true,
			ApplyModifiers: false,
			Triangulate:    false,
		},
		Preview: PreviewConfig{
			Enabled:       false,
			Format:        FormatPNG,
			PixelsPerUnit: 8,
			MaxSize:       2048,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values a YAML file or flag could have set badly.
func (c *Config) Validate() error {
	switch c.Preview.Format {
	case FormatPNG, FormatWebP, FormatTGA:
	default:
		return fmt.Errorf("%w: preview format %q (want png, webp or tga)", ErrInvalidConfig, c.Preview.Format)
	}
	if c.Preview.PixelsPerUnit <= 0 {
		return fmt.Errorf("%w: preview pixels_per_unit must be positive", ErrInvalidConfig)
	}
	if c.Preview.MaxSize <= 0 {
		return fmt.Errorf("%w: preview max_size must be positive", ErrInvalidConfig)
	}
	return nil
}
