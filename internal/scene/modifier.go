package scene

import (
	"fmt"

	"github.com/Faultbox/bndtool/pkg/bound"
	"github.com/Faultbox/bndtool/pkg/math"
)

// Modifier transforms geometry when a mesh is evaluated.
type Modifier interface {
	Name() string
	Apply(m *bound.HostMesh) (*bound.HostMesh, error)
}

// Translate offsets every vertex.
type Translate struct {
	Offset math.Vec3
}

// Name returns "translate".
func (Translate) Name() string { return "translate" }

// Apply offsets the vertices in place.
func (t Translate) Apply(m *bound.HostMesh) (*bound.HostMesh, error) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(t.Offset)
	}
	return m, nil
}

// Triangulate splits every quad along its first diagonal.
type Triangulate struct{}

// Name returns "triangulate".
func (Triangulate) Name() string { return "triangulate" }

// Apply replaces quads a-b-c-d with a-b-c and a-c-d, keeping the winding
// and the material.
func (Triangulate) Apply(m *bound.HostMesh) (*bound.HostMesh, error) {
	faces := make([]bound.Face, 0, len(m.Faces))
	for i, f := range m.Faces {
		switch len(f.Indices) {
		case 3:
			faces = append(faces, f)
		case 4:
			idx := f.Indices
			faces = append(faces,
				bound.Face{Indices: []int{idx[0], idx[1], idx[2]}, Material: f.Material},
				bound.Face{Indices: []int{idx[0], idx[2], idx[3]}, Material: f.Material},
			)
		default:
			return nil, fmt.Errorf("triangulate face %d: %w", i, bound.ErrFaceArity)
		}
	}
	m.Faces = faces
	return m, nil
}
