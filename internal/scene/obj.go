package scene

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/bndtool/internal/logger"
	"github.com/Faultbox/bndtool/pkg/bound"
	"github.com/Faultbox/bndtool/pkg/math"
)

// objBuilder collects one `o` block of a Wavefront OBJ file.
type objBuilder struct {
	name     string
	base     int // global index of the object's first vertex
	mesh     *bound.HostMesh
	slots    map[string]int
	material int
}

func newOBJBuilder(name string, base int) *objBuilder {
	return &objBuilder{
		name:  name,
		base:  base,
		mesh:  &bound.HostMesh{},
		slots: make(map[string]int),
	}
}

func (b *objBuilder) useMaterial(name string) {
	idx, ok := b.slots[name]
	if !ok {
		idx = len(b.mesh.MaterialSlots)
		b.slots[name] = idx
		b.mesh.MaterialSlots = append(b.mesh.MaterialSlots, name)
	}
	b.material = idx
}

// ReadOBJ reads a Wavefront OBJ file into a scene. Each `o` statement
// starts a mesh object owning the vertices that follow it; geometry before
// the first `o` goes to an object called defaultName. An `o` block without
// geometry becomes an empty. `usemtl` names become the object's material
// slots in first-use order. Faces with more than 4
// corners, or corners outside their object, are skipped with a warning.
func ReadOBJ(r io.Reader, defaultName string) (*Memory, error) {
	log := logger.Named("obj")

	var (
		objects  []*objBuilder
		current  *objBuilder
		vertices int
	)
	start := func(name string) {
		current = newOBJBuilder(name, vertices)
		objects = append(objects, current)
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "o":
			name := defaultName
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}
			start(name)

		case "v":
			if current == nil {
				start(defaultName)
			}
			v, err := parseOBJVertex(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			current.mesh.Vertices = append(current.mesh.Vertices, v)
			vertices++

		case "usemtl":
			if current == nil {
				start(defaultName)
			}
			if len(fields) > 1 {
				current.useMaterial(fields[1])
			}

		case "f":
			if current == nil {
				start(defaultName)
			}
			face, err := parseOBJFace(fields[1:], vertices, current)
			if err != nil {
				log.Warn("skipping face", zap.Int("line", lineNo), zap.String("object", current.name), zap.Error(err))
				continue
			}
			current.mesh.Faces = append(current.mesh.Faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	s := NewMemory()
	for _, b := range objects {
		if len(b.mesh.Vertices) == 0 && len(b.mesh.Faces) == 0 {
			s.Add(NewEmpty(b.name))
			continue
		}
		s.Add(NewMeshObject(b.name, b.mesh))
	}
	return s, nil
}

func parseOBJVertex(fields []string) (math.Vec3, error) {
	if len(fields) < 4 {
		return math.Vec3{}, fmt.Errorf("vertex needs 3 coordinates")
	}
	var xyz [3]float32
	for i := range xyz {
		f, err := strconv.ParseFloat(fields[i+1], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("vertex coordinate %q: %w", fields[i+1], err)
		}
		xyz[i] = float32(f)
	}
	return math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// parseOBJFace converts `v`, `v/vt`, `v//vn` and `v/vt/vn` corners into
// object-local vertex indices. Negative indices count back from the last
// vertex read.
func parseOBJFace(corners []string, total int, obj *objBuilder) (bound.Face, error) {
	if len(corners) != 3 && len(corners) != 4 {
		return bound.Face{}, fmt.Errorf("%w: got %d", bound.ErrFaceArity, len(corners))
	}

	indices := make([]int, len(corners))
	for i, c := range corners {
		ref, _, _ := strings.Cut(c, "/")
		n, err := strconv.Atoi(ref)
		if err != nil || n == 0 {
			return bound.Face{}, fmt.Errorf("bad vertex reference %q", c)
		}
		global := n - 1
		if n < 0 {
			global = total + n
		}
		local := global - obj.base
		if local < 0 || local >= len(obj.mesh.Vertices) {
			return bound.Face{}, fmt.Errorf("%w: %d", bound.ErrVertexIndexRange, n)
		}
		indices[i] = local
	}
	return bound.Face{Indices: indices, Material: obj.material}, nil
}

// LoadOBJ reads an OBJ file from disk. Geometry outside any `o` block is
// named after the file.
func LoadOBJ(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadOBJ(bytes.NewReader(data), name)
}

// WriteOBJ writes every mesh object of s. When mtllib is not empty a
// `mtllib` statement referencing it is emitted.
func WriteOBJ(w io.Writer, s *Memory, mtllib string) error {
	bw := bufio.NewWriter(w)

	if mtllib != "" {
		fmt.Fprintf(bw, "mtllib %s\n", mtllib)
	}

	base := 1
	for _, obj := range s.Objects() {
		src, ok := obj.(MeshSource)
		if !ok {
			continue
		}
		m, err := src.Mesh(false)
		if err != nil {
			return fmt.Errorf("object %s: %w", obj.Name(), err)
		}

		fmt.Fprintf(bw, "o %s\n", obj.Name())
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
		}

		current := -1
		for _, f := range m.Faces {
			if f.Material != current && f.Material < len(m.MaterialSlots) {
				fmt.Fprintf(bw, "usemtl %s\n", m.MaterialSlots[f.Material])
				current = f.Material
			}
			bw.WriteString("f")
			for _, idx := range f.Indices {
				fmt.Fprintf(bw, " %d", idx+base)
			}
			bw.WriteString("\n")
		}
		base += len(m.Vertices)
	}

	return bw.Flush()
}

// WriteMTL writes the scene materials as a Wavefront material library.
func WriteMTL(w io.Writer, materials []*Material) error {
	bw := bufio.NewWriter(w)
	for _, m := range materials {
		fmt.Fprintf(bw, "newmtl %s\n", m.Name)
		fmt.Fprintf(bw, "Kd %.6f %.6f %.6f\n", m.Color[0], m.Color[1], m.Color[2])
		fmt.Fprintf(bw, "Ks 0.000000 0.000000 0.000000\n")
		fmt.Fprintf(bw, "d %.6f\n\n", m.Color[3])
	}
	return bw.Flush()
}

// SaveOBJ writes s to path and its materials to a sibling .mtl file.
func SaveOBJ(path string, s *Memory) error {
	mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"

	if err := saveFile(mtlPath, func(w io.Writer) error {
		return WriteMTL(w, s.Materials())
	}); err != nil {
		return err
	}
	return saveFile(path, func(w io.Writer) error {
		return WriteOBJ(w, s, filepath.Base(mtlPath))
	})
}

func saveFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &bound.IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &bound.IOError{Op: "close", Path: path, Err: cerr}
		}
	}()
	if err := write(f); err != nil {
		return &bound.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
