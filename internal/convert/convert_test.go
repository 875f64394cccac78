package convert

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/bndtool/internal/config"
	"github.com/Faultbox/bndtool/internal/preview"
	"github.com/Faultbox/bndtool/internal/scene"
	"github.com/Faultbox/bndtool/pkg/bound"
	"github.com/Faultbox/bndtool/pkg/formats"
	"github.com/Faultbox/bndtool/pkg/math"
)

// groundScene returns a scene whose bound is a 20x15 host-space quad on
// the host XY ground plane, shifted by a translate modifier.
func groundScene() *scene.Memory {
	s := scene.NewMemory()
	s.Add(scene.NewEmpty("Camera"))
	obj := scene.NewMeshObject("Bound", &bound.HostMesh{
		Vertices: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 20, Y: 0, Z: 0},
			{X: 20, Y: 15, Z: 0},
			{X: 0, Y: 15, Z: 0},
		},
		Faces:         []bound.Face{{Indices: []int{0, 1, 2, 3}}},
		MaterialSlots: []string{"Grass.001"},
	})
	obj.AddModifier(scene.Translate{Offset: math.Vec3{Z: 2}})
	s.Add(obj)
	return s
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"map.bnd", ".bbnd", "map.bbnd"},
		{"dir/map.bnd", ".ter", "dir/map.ter"},
		{"noext", ".ter", "noext.ter"},
	}
	for _, tt := range tests {
		if got := ReplaceExt(tt.path, tt.ext); got != tt.want {
			t.Errorf("ReplaceExt(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}

func TestExportAll(t *testing.T) {
	dir := t.TempDir()
	bndPath := filepath.Join(dir, "field.bnd")

	res, err := Export(groundScene(), bndPath, Options{
		Binary:        true,
		Terrain:       true,
		Preview:       true,
		PreviewFormat: preview.FormatPNG,
		PreviewOptions: preview.Options{
			PixelsPerUnit: 1,
			MaxSize:       256,
		},
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	want := []string{
		bndPath,
		filepath.Join(dir, "field.bbnd"),
		filepath.Join(dir, "field.ter"),
		filepath.Join(dir, "field_grid.png"),
	}
	if len(res.Files) != len(want) {
		t.Fatalf("Files = %v, want %v", res.Files, want)
	}
	for i, path := range want {
		if res.Files[i] != path {
			t.Errorf("Files[%d] = %q, want %q", i, res.Files[i], path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}

	bbnd, _ := os.ReadFile(want[1])
	if len(bbnd) != formats.BBNDSize(res.Bound) {
		t.Errorf("bbnd size = %d, want %d", len(bbnd), formats.BBNDSize(res.Bound))
	}
	ter, _ := os.ReadFile(want[2])
	if len(ter) != formats.TERSize(res.Grid) {
		t.Errorf("ter size = %d, want %d", len(ter), formats.TERSize(res.Grid))
	}
	if res.Grid.Columns != 2 || res.Grid.Rows != 2 {
		t.Errorf("grid = %dx%d, want 2x2", res.Grid.Columns, res.Grid.Rows)
	}

	bnd, err := formats.ParseBNDFile(bndPath)
	if err != nil {
		t.Fatalf("ParseBNDFile() error = %v", err)
	}
	// Host (20, 15, 0) is file (-20, 0, 15); the modifier was not applied.
	if got := bnd.Bound.Vertices[2]; got != (math.Vec3{X: -20, Y: 0, Z: 15}) {
		t.Errorf("vertex 2 = %+v", got)
	}
	if got := bnd.Bound.Materials[0].Name; got != "grass" {
		t.Errorf("material = %q, want grass", got)
	}
}

func TestExportOptions(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantFiles int
		wantFaces int
		wantY     float32
	}{
		{"text only", Options{}, 1, 1, 0},
		{"apply modifiers", Options{ApplyModifiers: true}, 1, 1, 2},
		{"triangulate", Options{Triangulate: true}, 1, 2, 0},
		{"binary", Options{Binary: true}, 2, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bndPath := filepath.Join(t.TempDir(), "field.bnd")
			res, err := Export(groundScene(), bndPath, tt.opts)
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if len(res.Files) != tt.wantFiles {
				t.Errorf("Files = %v, want %d files", res.Files, tt.wantFiles)
			}
			if len(res.Bound.Faces) != tt.wantFaces {
				t.Errorf("faces = %d, want %d", len(res.Bound.Faces), tt.wantFaces)
			}
			if res.Bound.Vertices[0].Y != tt.wantY {
				t.Errorf("vertex 0 Y = %v, want %v", res.Bound.Vertices[0].Y, tt.wantY)
			}
			if res.Grid != nil {
				t.Error("Grid built without terrain or preview")
			}
		})
	}
}

func TestExportPreconditions(t *testing.T) {
	noBound := scene.NewMemory()
	noBound.Add(scene.NewEmpty("Camera"))

	emptyBound := scene.NewMemory()
	emptyBound.Add(scene.NewEmpty("BOUND"))

	badFace := scene.NewMemory()
	badFace.Add(scene.NewMeshObject("BOUND", &bound.HostMesh{
		Vertices: make([]math.Vec3, 3),
		Faces:    []bound.Face{{Indices: []int{0, 1, 5}}},
	}))

	tests := []struct {
		name    string
		scene   scene.Scene
		wantErr error
	}{
		{"no bound", noBound, bound.ErrNoBound},
		{"bound not a mesh", emptyBound, bound.ErrBoundNotMesh},
		{"bad face", badFace, bound.ErrVertexIndexRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := Export(tt.scene, filepath.Join(dir, "x.bnd"), Options{Binary: true, Terrain: true})

			var pe *bound.PreconditionError
			if !errors.As(err, &pe) || !errors.Is(err, tt.wantErr) {
				t.Fatalf("Export() error = %v, want precondition %v", err, tt.wantErr)
			}
			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("files written before precondition failure: %d", len(entries))
			}
		})
	}
}

func TestExportIOError(t *testing.T) {
	bndPath := filepath.Join(t.TempDir(), "missing", "field.bnd")
	_, err := Export(groundScene(), bndPath, Options{})

	var ioErr *bound.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Export() error = %v, want *IOError", err)
	}
	if ioErr.Path != bndPath {
		t.Errorf("IOError.Path = %q, want %q", ioErr.Path, bndPath)
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	bndPath := filepath.Join(dir, "field.bnd")
	if _, err := Export(groundScene(), bndPath, Options{}); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	s := scene.NewMemory()
	bnd, err := Import(bndPath, s)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(bnd.Skipped) != 0 {
		t.Errorf("Skipped = %v", bnd.Skipped)
	}

	src, err := scene.FindBound(s)
	if err != nil {
		t.Fatalf("FindBound() error = %v", err)
	}
	mesh, _ := src.Mesh(false)
	// Back in host space.
	if got := mesh.Vertices[2]; got != (math.Vec3{X: 20, Y: 15, Z: 0}) {
		t.Errorf("vertex 2 = %+v", got)
	}
	if len(s.Materials()) != 1 || s.Materials()[0].Name != "grass" {
		t.Errorf("materials = %v", s.Materials())
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	bndPath := filepath.Join(dir, "field.bnd")
	if _, err := Export(groundScene(), bndPath, Options{}); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	objPath := filepath.Join(dir, "field.obj")
	if _, err := ImportFile(bndPath, objPath); err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	data, err := os.ReadFile(objPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"mtllib field.mtl\n", "o BOUND\n", "usemtl grass\n", "f 1 2 3 4\n"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("OBJ missing %q:\n%s", want, data)
		}
	}
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.bnd")
	text := "version: 1.01\n" +
		"verts: 5\n" +
		"materials: 1\n" +
		"edges: 0\n" +
		"polys: 2\n" +
		"v 0 0 0\n" +
		"v 12 0 0\n" +
		"v 12 0 3\n" +
		"v 0 0 3\n" +
		"mtl sand {\n}\n" +
		"quad 0 1 2 3 0\n" +
		"tri 0 1 9 0\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if s.Vertices != 4 || s.Quads != 1 || s.Triangles != 0 {
		t.Errorf("counts = %d verts %d quads %d tris", s.Vertices, s.Quads, s.Triangles)
	}
	if len(s.Skipped) != 1 {
		t.Errorf("Skipped = %d, want 1", len(s.Skipped))
	}
	if s.Columns != 2 || s.Rows != 1 {
		t.Errorf("grid = %dx%d, want 2x1", s.Columns, s.Rows)
	}
	if s.BBNDSize != 13+4*12+104+10 {
		t.Errorf("BBNDSize = %d", s.BBNDSize)
	}
	if len(s.Mismatches) != 2 {
		t.Errorf("Mismatches = %v, want verts and polys", s.Mismatches)
	}
}

func TestInspectTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.bnd")
	text := "v 0 0 0\nv 100000000 0 0\nv 0 0 100000000\nmtl grass {\n}\ntri 0  1  2  0\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Inspect(path); !errors.Is(err, formats.ErrTerrainTooLarge) {
		t.Errorf("Inspect() error = %v, want ErrTerrainTooLarge", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Export.Triangulate = true
	cfg.Preview.Format = config.FormatWebP

	opts := OptionsFromConfig(cfg)
	if !opts.Binary || !opts.Terrain || !opts.Triangulate || opts.ApplyModifiers {
		t.Errorf("export options = %+v", opts)
	}
	if opts.PreviewFormat != preview.FormatWebP || opts.PreviewOptions.PixelsPerUnit != 8 {
		t.Errorf("preview options = %+v", opts)
	}
}
