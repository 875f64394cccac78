// Package preview draws a terrain grid as a top-down debug image.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/Faultbox/bndtool/internal/scene"
	"github.com/Faultbox/bndtool/pkg/bound"
	"github.com/Faultbox/bndtool/pkg/formats"
)

// Image formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

// ErrUnknownFormat is returned for an unsupported image format.
var ErrUnknownFormat = errors.New("unknown preview format")

var (
	emptyCell = color.RGBA{R: 24, G: 24, B: 32, A: 255}
	fullCell  = color.RGBA{R: 200, G: 60, B: 40, A: 255}
	gridLine  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Options controls the image size.
type Options struct {
	PixelsPerUnit int
	MaxSize       int
}

// Render draws g seen from above, north up. Each cell is shaded by how
// many faces it holds, grid lines separate the cells, and the faces of b
// are outlined in their material color.
func Render(g *formats.TerrainGrid, b *bound.Bound, opts Options) (*image.RGBA, error) {
	cellPx := cellPixels(g, opts)
	w, h := g.Columns*cellPx, g.Rows*cellPx

	// One pixel per cell, scaled up to the final size.
	cells := image.NewRGBA(image.Rect(0, 0, g.Columns, g.Rows))
	most := 0
	for _, c := range g.Cells {
		most = max(most, len(c.Faces))
	}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Columns; col++ {
			cells.SetRGBA(col, g.Rows-1-row, shade(len(g.Cell(col, row).Faces), most))
		}
	}

	shaded := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(shaded, shaded.Bounds(), cells, cells.Bounds(), draw.Src, nil)

	dc := gg.NewContextForImage(shaded)
	defer dc.Close()
	dc.SetLineWidth(1)

	// Lines run through pixel centers so a 1px stroke covers one column.
	center := func(px, limit int) float64 {
		return float64(min(px, limit-1)) + 0.5
	}
	dc.SetColor(gridLine)
	for col := 0; col <= g.Columns; col++ {
		x := center(col*cellPx, w)
		dc.DrawLine(x, 0, x, float64(h))
	}
	for row := 0; row <= g.Rows; row++ {
		y := center(row*cellPx, h)
		dc.DrawLine(0, y, float64(w), y)
	}
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("drawing grid: %w", err)
	}

	scale := float64(cellPx) / formats.TerrainCellSize
	project := func(i int) (float64, float64) {
		v := b.Vertices[i]
		return float64(v.X-g.Min.X) * scale, float64(h) - float64(v.Z-g.Min.Z)*scale
	}
	materials := b.MaterialsOrDefault()
	for i, f := range b.Faces {
		dc.SetColor(outlineColor(materials[f.Material].Name))
		for j, idx := range f.Indices {
			x, y := project(idx)
			if j == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("drawing face %d: %w", i, err)
		}
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flushing preview: %w", err)
	}
	return dc.Image().(*image.RGBA), nil
}

// cellPixels returns the edge length of one cell in pixels, keeping the
// longer image side within opts.MaxSize.
func cellPixels(g *formats.TerrainGrid, opts Options) int {
	px := formats.TerrainCellSize * max(1, opts.PixelsPerUnit)
	if opts.MaxSize > 0 {
		px = min(px, opts.MaxSize/max(g.Columns, g.Rows))
	}
	return max(1, px)
}

func shade(count, most int) color.RGBA {
	if count == 0 || most == 0 {
		return emptyCell
	}
	t := float32(count) / float32(most)
	mix := func(a, b uint8) uint8 {
		return uint8(float32(a) + (float32(b)-float32(a))*t)
	}
	return color.RGBA{
		R: mix(emptyCell.R, fullCell.R),
		G: mix(emptyCell.G, fullCell.G),
		B: mix(emptyCell.B, fullCell.B),
		A: 255,
	}
}

func outlineColor(material string) color.RGBA {
	c := scene.MaterialColor(material)
	return color.RGBA{
		R: uint8(c[0] * 255),
		G: uint8(c[1] * 255),
		B: uint8(c[2] * 255),
		A: 255,
	}
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	case FormatTGA:
		return tga.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Path returns the preview file name for a terrain file:
// "map.ter" becomes "map_grid.png".
func Path(terPath, format string) string {
	base := strings.TrimSuffix(terPath, filepath.Ext(terPath))
	return base + "_grid." + strings.ToLower(format)
}

// WriteFile encodes img to path.
func WriteFile(path string, img image.Image, format string) (err error) {
	switch strings.ToLower(format) {
	case FormatPNG, FormatWebP, FormatTGA:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return &bound.IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &bound.IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if err := Encode(f, img, format); err != nil {
		return &bound.IOError{Op: "encode", Path: path, Err: err}
	}
	return nil
}
