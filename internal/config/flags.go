package config

import "flag"

// Flags holds command-line overrides bound to one sub-command's flag set.
type Flags struct {
	fs *flag.FlagSet

	config         *string
	debug          *bool
	logFile        *string
	binary         *bool
	terrain        *bool
	applyModifiers *bool
	triangulate    *bool
	preview        *bool
	previewFormat  *string
}

// BindFlags registers the common flags on fs. Export flags are only
// registered when export is true.
func BindFlags(fs *flag.FlagSet, export bool) *Flags {
	f := &Flags{
		fs:      fs,
		config:  fs.String("config", "", "Path to config file"),
		debug:   fs.Bool("debug", false, "Enable debug logging"),
		logFile: fs.String("log-file", "", "Also write logs to this file"),
	}
	if export {
		f.binary = fs.Bool("binary", false, "Also write a binary bound (.bbnd)")
		f.terrain = fs.Bool("terrain", false, "Also write a terrain bound (.ter)")
		f.applyModifiers = fs.Bool("apply-modifiers", false, "Evaluate the object's modifier stack")
		f.triangulate = fs.Bool("triangulate", false, "Split quads into triangles before export")
		f.preview = fs.Bool("preview", false, "Write a terrain grid preview image")
		f.previewFormat = fs.String("preview-format", "", "Preview image format: png, webp or tga")
	}
	return f
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// applyFlags applies CLI flag overrides to the config. Only flags that
// were given on the command line override the file, so -binary=false
// can turn off a file setting.
func (f *Flags) applyFlags(cfg *Config) {
	if f == nil {
		return
	}

	set := make(map[string]bool)
	f.fs.Visit(func(fl *flag.Flag) {
		set[fl.Name] = true
	})

	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.logFile != "" {
		cfg.Logging.LogFile = *f.logFile
	}
	if set["binary"] {
		cfg.Export.Binary = *f.binary
	}
	if set["terrain"] {
		cfg.Export.Terrain = *f.terrain
	}
	if set["apply-modifiers"] {
		cfg.Export.ApplyModifiers = *f.applyModifiers
	}
	if set["triangulate"] {
		cfg.Export.Triangulate = *f.triangulate
	}
	if set["preview"] {
		cfg.Preview.Enabled = *f.preview
	}
	if set["preview-format"] {
		cfg.Preview.Format = *f.previewFormat
	}
}
