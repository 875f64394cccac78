package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	gomath "math"

	"github.com/Faultbox/bndtool/pkg/bound"
	"github.com/Faultbox/bndtool/pkg/geom"
	"github.com/Faultbox/bndtool/pkg/math"
)

// TER layout and partitioning constants.
const (
	TERVersion float32 = 1.1

	// TerrainCellSize is the target edge length of a grid cell in world units.
	TerrainCellSize = 10

	// TerrainCellPadding grows every cell before testing polygons against it,
	// so faces that only graze a cell border are still assigned to it.
	TerrainCellPadding = 0.1

	// MaxTerrainSections caps the number of grid cells, about a
	// 20 km square at the default cell size.
	MaxTerrainSections = 1 << 22

	terHeaderSize = 84
)

// ErrTerrainTooLarge is returned when a bound spans more grid cells than
// MaxTerrainSections.
var ErrTerrainTooLarge = errors.New("terrain grid too large")

// TerrainCell is one section of the terrain grid.
type TerrainCell struct {
	Column int
	Row    int

	// Bounds is the padded cell rectangle in the XZ plane.
	Bounds geom.Rect

	// Faces lists the indices of every face touching the cell, ascending.
	Faces []int
}

// TerrainGrid partitions a bound's faces into a 2D grid over the XZ plane.
// Cells are stored in file order: rows outer, columns inner and descending.
type TerrainGrid struct {
	FaceCount  int
	Min, Max   math.Vec3
	Columns    int
	Rows       int
	Cells      []TerrainCell
	IndexCount int
}

// Width returns the X extent of the bound.
func (g *TerrainGrid) Width() float32 { return g.Max.X - g.Min.X }

// Height returns the Y (up) extent of the bound.
func (g *TerrainGrid) Height() float32 { return g.Max.Y - g.Min.Y }

// Depth returns the Z extent of the bound.
func (g *TerrainGrid) Depth() float32 { return g.Max.Z - g.Min.Z }

// HeightSections is always 1: the grid is not split vertically.
func (g *TerrainGrid) HeightSections() int { return 1 }

// Sections returns the total number of cells.
func (g *TerrainGrid) Sections() int { return g.Columns * g.Rows }

// InverseDensity returns columns per unit of width and rows per unit of
// depth. A zero extent gives +Inf.
func (g *TerrainGrid) InverseDensity() (x, z float32) {
	return inverseDensity(g.Columns, g.Width()), inverseDensity(g.Rows, g.Depth())
}

func inverseDensity(sections int, extent float32) float32 {
	if extent == 0 {
		return float32(gomath.Inf(1))
	}
	return float32(sections) / extent
}

// Cell returns the cell at the given column and row, or nil.
func (g *TerrainGrid) Cell(column, row int) *TerrainCell {
	if column < 0 || row < 0 || column >= g.Columns || row >= g.Rows {
		return nil
	}
	return &g.Cells[row*g.Columns+(g.Columns-1-column)]
}

// sectionCount returns ceil(extent/size), at least 1. The result stays
// in float64 so huge or infinite extents can be rejected before any int
// conversion.
func sectionCount(extent float32) float64 {
	return max(1, gomath.Ceil(float64(extent)/TerrainCellSize))
}

// terrainFace is a face projected onto the XZ plane.
type terrainFace struct {
	points []math.Vec2
	bounds geom.Rect
	edges  []geom.Segment
}

func projectFace(b *bound.Bound, f bound.Face) terrainFace {
	tf := terrainFace{points: make([]math.Vec2, len(f.Indices))}
	for i, idx := range f.Indices {
		tf.points[i] = b.Vertices[idx].XZ()
	}
	tf.bounds = geom.BoundsOf(tf.points)
	for i, p := range tf.points {
		e := geom.Segment{A: p, B: tf.points[(i+1)%len(tf.points)]}
		if !e.Degenerate() {
			tf.edges = append(tf.edges, e)
		}
	}
	return tf
}

// touches runs the cell tests cheapest first.
func (tf *terrainFace) touches(cell geom.Rect) bool {
	if !tf.bounds.Overlaps(cell) {
		return false
	}

	// A face vertex lies in the cell.
	for _, p := range tf.points {
		if cell.Contains(p) {
			return true
		}
	}

	// The face swallows a cell corner.
	for _, c := range cell.Corners() {
		if geom.PointInPolygon(c, tf.points) {
			return true
		}
	}

	// A face edge crosses a cell border.
	borders := cell.Edges()
	for _, e := range tf.edges {
		for _, border := range borders {
			if e.Intersects(border) {
				return true
			}
		}
	}
	return false
}

// BuildTerrain partitions the faces of a file-space bound into the terrain
// grid.
func BuildTerrain(b *bound.Bound) (*TerrainGrid, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if len(b.Faces) > maxIndex+1 {
		return nil, fmt.Errorf("%w: %d faces", bound.ErrIndexOverflow, len(b.Faces))
	}

	lo, hi := b.Extents()
	g := &TerrainGrid{
		FaceCount: len(b.Faces),
		Min:       lo,
		Max:       hi,
	}
	cols, rows := sectionCount(g.Width()), sectionCount(g.Depth())
	// Written negated so NaN extents fail too.
	if !(cols*rows <= MaxTerrainSections) {
		return nil, fmt.Errorf("%w: %.0f x %.0f cells (limit %d)", ErrTerrainTooLarge, cols, rows, MaxTerrainSections)
	}
	g.Columns, g.Rows = int(cols), int(rows)
	g.Cells = make([]TerrainCell, 0, g.Sections())

	faces := make([]terrainFace, len(b.Faces))
	for i, f := range b.Faces {
		faces[i] = projectFace(b, f)
	}

	for row := 0; row < g.Rows; row++ {
		for col := g.Columns - 1; col >= 0; col-- {
			cellMin := math.Vec2{
				X: lo.X + float32(col)*TerrainCellSize,
				Y: lo.Z + float32(row)*TerrainCellSize,
			}
			cell := TerrainCell{
				Column: col,
				Row:    row,
				Bounds: geom.Rect{
					Min: cellMin,
					Max: cellMin.Add(math.Vec2{X: TerrainCellSize, Y: TerrainCellSize}),
				}.Inflate(TerrainCellPadding),
			}
			for i := range faces {
				if faces[i].touches(cell.Bounds) {
					cell.Faces = append(cell.Faces, i)
				}
			}
			g.IndexCount += len(cell.Faces)
			g.Cells = append(g.Cells, cell)
		}
	}

	return g, nil
}

type terHeader struct {
	Version        float32
	FaceCount      uint32
	Reserved       [2]uint32
	Width          float32
	Height         float32
	Depth          float32
	WidthSections  uint32
	HeightSections uint32
	DepthSections  uint32
	TotalSections  uint32
	IndexCount     uint32
	InvWidth       float32
	HeightScale    float32
	InvDepth       float32
	Min            [3]float32
	Max            [3]float32
}

// TERSize returns the exact encoded size of g in bytes.
func TERSize(g *TerrainGrid) int {
	return terHeaderSize + 2*2*len(g.Cells) + 2*g.IndexCount
}

// MarshalBinary encodes the grid in the TER layout: an 84-byte header
// followed by u16 tables of per-cell offsets, per-cell counts and the
// flattened face indices, all in cell order.
func (g *TerrainGrid) MarshalBinary() ([]byte, error) {
	invWidth, invDepth := g.InverseDensity()
	header := terHeader{
		Version:        TERVersion,
		FaceCount:      uint32(g.FaceCount),
		Width:          g.Width(),
		Height:         g.Height(),
		Depth:          g.Depth(),
		WidthSections:  uint32(g.Columns),
		HeightSections: uint32(g.HeightSections()),
		DepthSections:  uint32(g.Rows),
		TotalSections:  uint32(g.Sections()),
		IndexCount:     uint32(g.IndexCount),
		InvWidth:       invWidth,
		HeightScale:    1,
		InvDepth:       invDepth,
		Min:            [3]float32{g.Min.X, g.Min.Y, g.Min.Z},
		Max:            [3]float32{g.Max.X, g.Max.Y, g.Max.Z},
	}

	offsets := make([]uint16, len(g.Cells))
	counts := make([]uint16, len(g.Cells))
	indices := make([]uint16, 0, g.IndexCount)
	offset := 0
	for i, cell := range g.Cells {
		if offset > maxIndex || len(cell.Faces) > maxIndex {
			return nil, fmt.Errorf("%w: cell %d offset %d count %d", bound.ErrIndexOverflow, i, offset, len(cell.Faces))
		}
		offsets[i] = uint16(offset)
		counts[i] = uint16(len(cell.Faces))
		for _, idx := range cell.Faces {
			if idx < 0 || idx > maxIndex {
				return nil, fmt.Errorf("%w: face %d in cell %d", bound.ErrIndexOverflow, idx, i)
			}
			indices = append(indices, uint16(idx))
		}
		offset += len(cell.Faces)
	}

	buf := bytes.NewBuffer(make([]byte, 0, TERSize(g)))
	if err := binary.Write(buf, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, offsets); err != nil {
		return nil, fmt.Errorf("writing offsets: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, counts); err != nil {
		return nil, fmt.Errorf("writing counts: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, indices); err != nil {
		return nil, fmt.Errorf("writing indices: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTo writes the encoded grid to w.
func (g *TerrainGrid) WriteTo(w io.Writer) (int64, error) {
	data, err := g.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// WriteTER partitions b and writes the terrain file.
func WriteTER(w io.Writer, b *bound.Bound) error {
	g, err := BuildTerrain(b)
	if err != nil {
		return err
	}
	_, err = g.WriteTo(w)
	return err
}

// WriteTERFile writes an already built grid to disk.
func WriteTERFile(path string, g *TerrainGrid) error {
	data, err := g.MarshalBinary()
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
