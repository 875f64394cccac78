// Package convert moves collision bounds between a host scene and the
// BND, BBND and TER files.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/bndtool/internal/config"
	"github.com/Faultbox/bndtool/internal/logger"
	"github.com/Faultbox/bndtool/internal/preview"
	"github.com/Faultbox/bndtool/internal/scene"
	"github.com/Faultbox/bndtool/pkg/bound"
	"github.com/Faultbox/bndtool/pkg/formats"
)

// Options selects what an export writes.
type Options struct {
	Binary         bool // also write .bbnd
	Terrain        bool // also write .ter
	ApplyModifiers bool
	Triangulate    bool

	Preview        bool
	PreviewFormat  string
	PreviewOptions preview.Options
}

// OptionsFromConfig maps the export and preview settings of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Binary:         cfg.Export.Binary,
		Terrain:        cfg.Export.Terrain,
		ApplyModifiers: cfg.Export.ApplyModifiers,
		Triangulate:    cfg.Export.Triangulate,
		Preview:        cfg.Preview.Enabled,
		PreviewFormat:  cfg.Preview.Format,
		PreviewOptions: preview.Options{
			PixelsPerUnit: cfg.Preview.PixelsPerUnit,
			MaxSize:       cfg.Preview.MaxSize,
		},
	}
}

// Result describes a finished export.
type Result struct {
	Bound *bound.Bound
	Grid  *formats.TerrainGrid // nil unless a terrain file or preview was written
	Files []string             // written files, in order
}

// ReplaceExt swaps the extension of path for ext.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// Export writes the scene's bound object to bndPath and, when enabled, to
// the .bbnd and .ter files next to it. Formats are written in that order;
// a failure stops the export and leaves earlier files in place.
func Export(s scene.Scene, bndPath string, opts Options) (*Result, error) {
	log := logger.Named("export")
	start := time.Now()

	src, err := scene.FindBound(s)
	if err != nil {
		return nil, err
	}
	mesh, err := src.Mesh(opts.ApplyModifiers)
	if err != nil {
		return nil, &bound.PreconditionError{Object: src.Name(), Err: err}
	}
	if opts.Triangulate {
		if mesh, err = (scene.Triangulate{}).Apply(mesh); err != nil {
			return nil, &bound.PreconditionError{Object: src.Name(), Err: err}
		}
	}

	b := bound.FromHost(src.Name(), mesh)
	if err := b.Validate(); err != nil {
		return nil, &bound.PreconditionError{Object: src.Name(), Err: err}
	}

	log.Info("exporting bound",
		zap.String("object", src.Name()),
		zap.Int("vertices", len(b.Vertices)),
		zap.Int("faces", len(b.Faces)),
		zap.Int("materials", len(b.Materials)),
		zap.Bool("apply_modifiers", opts.ApplyModifiers))

	res := &Result{Bound: b}
	written := func(path string) {
		res.Files = append(res.Files, path)
		var size int64
		if fi, err := os.Stat(path); err == nil {
			size = fi.Size()
		}
		log.Info("wrote file", zap.String("path", path), zap.Int64("bytes", size))
	}

	if err := formats.WriteBNDFile(bndPath, b); err != nil {
		return res, err
	}
	written(bndPath)

	if opts.Binary {
		path := ReplaceExt(bndPath, formats.ExtBBND)
		if err := formats.WriteBBNDFile(path, b); err != nil {
			return res, err
		}
		written(path)
	}

	if opts.Terrain || opts.Preview {
		g, err := formats.BuildTerrain(b)
		if err != nil {
			return res, err
		}
		res.Grid = g
		log.Debug("partitioned terrain",
			zap.Int("columns", g.Columns),
			zap.Int("rows", g.Rows),
			zap.Int("indices", g.IndexCount))

		terPath := ReplaceExt(bndPath, formats.ExtTER)
		if opts.Terrain {
			if err := formats.WriteTERFile(terPath, g); err != nil {
				return res, err
			}
			written(terPath)
		}

		if opts.Preview {
			path := preview.Path(terPath, opts.PreviewFormat)
			img, err := preview.Render(g, b, opts.PreviewOptions)
			if err != nil {
				return res, err
			}
			if err := preview.WriteFile(path, img, opts.PreviewFormat); err != nil {
				return res, err
			}
			written(path)
		}
	}

	log.Info("export finished", zap.Int("files", len(res.Files)), zap.Duration("took", time.Since(start)))
	return res, nil
}

// Import reads a text bound into s as a new BOUND object. Lines the reader
// skipped are logged and returned with the parsed file.
func Import(bndPath string, s *scene.Memory) (*formats.BND, error) {
	log := logger.Named("import")
	start := time.Now()

	bnd, err := formats.ParseBNDFile(bndPath)
	if err != nil {
		return nil, err
	}
	for _, skipped := range bnd.Skipped {
		log.Warn("skipped line",
			zap.Int("line", skipped.Line),
			zap.String("text", skipped.Text),
			zap.Error(skipped.Err))
	}

	obj := s.ImportBound(bnd.Bound.ToHost())
	log.Info("import finished",
		zap.String("path", bndPath),
		zap.String("object", obj.Name()),
		zap.Int("vertices", len(bnd.Bound.Vertices)),
		zap.Int("faces", len(bnd.Bound.Faces)),
		zap.Int("skipped", len(bnd.Skipped)),
		zap.Duration("took", time.Since(start)))
	return bnd, nil
}

// ImportFile imports bndPath into a fresh scene and saves it as OBJ.
func ImportFile(bndPath, objPath string) (*formats.BND, error) {
	s := scene.NewMemory()
	bnd, err := Import(bndPath, s)
	if err != nil {
		return nil, err
	}
	if err := scene.SaveOBJ(objPath, s); err != nil {
		return bnd, fmt.Errorf("saving %s: %w", objPath, err)
	}
	logger.Named("import").Info("wrote file", zap.String("path", objPath))
	return bnd, nil
}
