package convert

import (
	"fmt"

	"github.com/Faultbox/bndtool/pkg/bound"
	"github.com/Faultbox/bndtool/pkg/formats"
	"github.com/Faultbox/bndtool/pkg/math"
)

// Summary describes a text bound on disk.
type Summary struct {
	Path      string
	Header    formats.BNDHeader
	Vertices  int
	Materials []string
	Triangles int
	Quads     int
	Skipped   []*bound.MalformedInputError
	Min, Max  math.Vec3

	BBNDSize int
	Columns  int
	Rows     int
	TERSize  int

	// Mismatches lists header counts that disagree with the body.
	Mismatches []string
}

// Inspect parses bndPath and reports what the binary and terrain exports of
// it would look like.
func Inspect(bndPath string) (*Summary, error) {
	bnd, err := formats.ParseBNDFile(bndPath)
	if err != nil {
		return nil, err
	}
	b := bnd.Bound

	s := &Summary{
		Path:     bndPath,
		Header:   bnd.Header,
		Vertices: len(b.Vertices),
		Skipped:  bnd.Skipped,
		BBNDSize: formats.BBNDSize(b),
	}
	s.Min, s.Max = b.Extents()
	for _, m := range b.Materials {
		s.Materials = append(s.Materials, m.Name)
	}
	for _, f := range b.Faces {
		if f.IsQuad() {
			s.Quads++
		} else {
			s.Triangles++
		}
	}

	g, err := formats.BuildTerrain(b)
	if err != nil {
		return nil, fmt.Errorf("partitioning %s: %w", bndPath, err)
	}
	s.Columns, s.Rows = g.Columns, g.Rows
	s.TERSize = formats.TERSize(g)

	check := func(field string, declared, actual int) {
		if declared != actual {
			s.Mismatches = append(s.Mismatches, fmt.Sprintf("%s: header says %d, file has %d", field, declared, actual))
		}
	}
	check("verts", bnd.Header.Verts, len(b.Vertices))
	check("materials", bnd.Header.Materials, len(b.MaterialsOrDefault()))
	check("polys", bnd.Header.Polys, len(b.Faces))

	return s, nil
}
