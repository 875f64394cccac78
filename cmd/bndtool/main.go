// bndtool converts collision bounds between Wavefront OBJ scenes and the
// BND, BBND and TER bound formats.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/bndtool/internal/config"
	"github.com/Faultbox/bndtool/internal/convert"
	"github.com/Faultbox/bndtool/internal/logger"
	"github.com/Faultbox/bndtool/internal/scene"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "export":
		err = cmdExport(args)
	case "import":
		err = cmdImport(args)
	case "info":
		err = cmdInfo(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bndtool - collision bound converter

Usage:
  bndtool <command> [options]

Commands:
  export [flags] <scene.obj> <out.bnd>  Export the BOUND object (.bnd, .bbnd, .ter)
  import [flags] <in.bnd> <out.obj>     Import a text bound into an OBJ scene
  info <in.bnd>                         Show bound statistics
  config [path]                         Write the effective config as YAML

Examples:
  bndtool export -terrain -preview prontera.obj prontera.bnd
  bndtool import prontera.bnd prontera.obj
  bndtool info prontera.bnd`)
}

// setup parses args, loads the config and starts logging.
func setup(name string, args []string, export bool, usage string, nargs int) (*flag.FlagSet, *config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.BindFlags(fs, export)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bndtool %s\n", usage)
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if fs.NArg() < nargs {
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return fs, cfg, nil
}

func cmdExport(args []string) error {
	fs, cfg, err := setup("export", args, true, "export [flags] <scene.obj> <out.bnd>", 2)
	if err != nil {
		return err
	}

	s, err := scene.LoadOBJ(fs.Arg(0))
	if err != nil {
		return err
	}
	res, err := convert.Export(s, fs.Arg(1), convert.OptionsFromConfig(cfg))
	if res != nil {
		for _, path := range res.Files {
			fmt.Println(path)
		}
	}
	return err
}

func cmdImport(args []string) error {
	fs, _, err := setup("import", args, false, "import [flags] <in.bnd> <out.obj>", 2)
	if err != nil {
		return err
	}

	bnd, err := convert.ImportFile(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}
	if n := len(bnd.Skipped); n > 0 {
		fmt.Fprintf(os.Stderr, "%d line(s) skipped, see log\n", n)
	}
	fmt.Println(fs.Arg(1))
	return nil
}

func cmdInfo(args []string) error {
	fs, _, err := setup("info", args, false, "info <in.bnd>", 1)
	if err != nil {
		return err
	}

	s, err := convert.Inspect(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("Bound:     %s\n", s.Path)
	fmt.Printf("Version:   %s\n", s.Header.Version)
	fmt.Printf("Vertices:  %d\n", s.Vertices)
	fmt.Printf("Faces:     %d (%d tri, %d quad)\n", s.Triangles+s.Quads, s.Triangles, s.Quads)
	fmt.Printf("Materials: %s\n", strings.Join(s.Materials, ", "))
	fmt.Printf("Extents:   (%.2f, %.2f, %.2f) - (%.2f, %.2f, %.2f)\n",
		s.Min.X, s.Min.Y, s.Min.Z, s.Max.X, s.Max.Y, s.Max.Z)
	fmt.Println()
	fmt.Printf("BBND size: %d bytes\n", s.BBNDSize)
	fmt.Printf("TER grid:  %d x %d cells, %d bytes\n", s.Columns, s.Rows, s.TERSize)

	if len(s.Mismatches) > 0 {
		fmt.Println()
		fmt.Println("Header mismatches:")
		for _, m := range s.Mismatches {
			fmt.Printf("  %s\n", m)
		}
	}
	if len(s.Skipped) > 0 {
		fmt.Println()
		fmt.Printf("Skipped lines (%d):\n", len(s.Skipped))
		for _, sk := range s.Skipped {
			fmt.Printf("  %v\n", sk)
		}
	}
	return nil
}

func cmdConfig(args []string) error {
	fs, cfg, err := setup("config", args, true, "config [flags] [path]", 0)
	if err != nil {
		return err
	}

	if fs.NArg() > 0 {
		if err := cfg.SaveTo(fs.Arg(0)); err != nil {
			return err
		}
		fmt.Println(fs.Arg(0))
		return nil
	}
	path, err := cfg.Save()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
