package bound

import (
	"github.com/Faultbox/bndtool/pkg/encoding"
	"github.com/Faultbox/bndtool/pkg/math"
)

// ToFile converts a host-space position to file space.
// The X axis is mirrored and Y and Z are swapped.
func ToFile(v math.Vec3) math.Vec3 {
	return math.Vec3{X: -v.X, Y: v.Z, Z: v.Y}
}

// FromFile converts a file-space position to host space.
// The remap is its own inverse.
func FromFile(v math.Vec3) math.Vec3 {
	return math.Vec3{X: -v.X, Y: v.Z, Z: v.Y}
}

// HostMesh is mesh geometry as the host scene sees it: host-space vertices,
// faces indexing them, and the ordered material slot names.
type HostMesh struct {
	Vertices      []math.Vec3
	Faces         []Face
	MaterialSlots []string
}

// FromHost builds a file-space bound from host geometry.
// Slot names lose their duplicate suffix and negative material indices
// are clamped to 0.
func FromHost(name string, m *HostMesh) *Bound {
	b := &Bound{
		Name:      name,
		Vertices:  make([]math.Vec3, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, 0, len(m.MaterialSlots)),
	}
	for i, v := range m.Vertices {
		b.Vertices[i] = ToFile(v)
	}
	for i, f := range m.Faces {
		b.Faces[i] = Face{
			Indices:  append([]int(nil), f.Indices...),
			Material: max(0, f.Material),
		}
	}
	for _, slot := range m.MaterialSlots {
		b.Materials = append(b.Materials, NewMaterial(encoding.UndupeName(slot)))
	}
	return b
}

// ToHost converts the bound back to host geometry.
func (b *Bound) ToHost() *HostMesh {
	m := &HostMesh{
		Vertices:      make([]math.Vec3, len(b.Vertices)),
		Faces:         make([]Face, len(b.Faces)),
		MaterialSlots: make([]string, len(b.Materials)),
	}
	for i, v := range b.Vertices {
		m.Vertices[i] = FromFile(v)
	}
	for i, f := range b.Faces {
		m.Faces[i] = Face{
			Indices:  append([]int(nil), f.Indices...),
			Material: f.Material,
		}
	}
	for i, mat := range b.Materials {
		m.MaterialSlots[i] = mat.Name
	}
	return m
}
