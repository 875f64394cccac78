// Package bound is the in-memory model of a collision bound: vertices in
// file space, triangle and quad faces, and physical materials.
package bound

import (
	"fmt"

	"github.com/Faultbox/bndtool/pkg/math"
)

// Material defaults written for every material.
const (
	DefaultElasticity   = 0.1
	DefaultFriction     = 0.5
	DefaultEffect       = "none"
	DefaultSound        = "none"
	DefaultMaterialName = "default"
)

// Material is a physical surface description.
type Material struct {
	Name       string
	Elasticity float32
	Friction   float32
	Effect     string // reserved, always "none"
	Sound      string // reserved, always "none"
}

// NewMaterial returns a material with the default physical properties.
func NewMaterial(name string) Material {
	return Material{
		Name:       name,
		Elasticity: DefaultElasticity,
		Friction:   DefaultFriction,
		Effect:     DefaultEffect,
		Sound:      DefaultSound,
	}
}

// Face is a triangle or quad. Indices keep the source winding.
type Face struct {
	Indices  []int
	Material int
}

// IsQuad returns true for four-vertex faces.
func (f Face) IsQuad() bool {
	return len(f.Indices) == 4
}

// Bound is one collision mesh: vertices in file space, faces and the
// ordered material list the faces index into.
type Bound struct {
	Name      string
	Vertices  []math.Vec3
	Faces     []Face
	Materials []Material
}

// New creates an empty bound.
func New(name string) *Bound {
	return &Bound{Name: name}
}

// AddVertex appends a file-space vertex and returns its index.
func (b *Bound) AddVertex(v math.Vec3) int {
	b.Vertices = append(b.Vertices, v)
	return len(b.Vertices) - 1
}

// AddMaterial appends a material and returns its index.
func (b *Bound) AddMaterial(m Material) int {
	b.Materials = append(b.Materials, m)
	return len(b.Materials) - 1
}

// AddFace appends a face built from already-added vertices.
// The face is rejected, and the bound left unchanged, if its arity is not
// 3 or 4, an index is out of range, or a vertex repeats.
func (b *Bound) AddFace(indices []int, material int) error {
	if err := b.checkFace(indices); err != nil {
		return err
	}
	b.Faces = append(b.Faces, Face{
		Indices:  append([]int(nil), indices...),
		Material: max(0, material),
	})
	return nil
}

func (b *Bound) checkFace(indices []int) error {
	if len(indices) != 3 && len(indices) != 4 {
		return fmt.Errorf("%w: got %d", ErrFaceArity, len(indices))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= len(b.Vertices) {
			return fmt.Errorf("%w: %d (have %d vertices)", ErrVertexIndexRange, idx, len(b.Vertices))
		}
		for _, prev := range indices[:i] {
			if prev == idx {
				return fmt.Errorf("%w: %d", ErrDuplicateVertex, idx)
			}
		}
	}
	return nil
}

// MaterialsOrDefault returns the material list, or a single "default"
// material when the bound has none.
func (b *Bound) MaterialsOrDefault() []Material {
	if len(b.Materials) == 0 {
		return []Material{NewMaterial(DefaultMaterialName)}
	}
	return b.Materials
}

// Validate checks that every face references existing vertices and
// materials. An empty material list accepts material index 0 only.
func (b *Bound) Validate() error {
	materials := max(1, len(b.Materials))
	for i, f := range b.Faces {
		if err := b.checkFace(f.Indices); err != nil {
			return fmt.Errorf("face %d: %w", i, err)
		}
		if f.Material < 0 || f.Material >= materials {
			return fmt.Errorf("face %d: %w: %d (have %d materials)", i, ErrMaterialRange, f.Material, materials)
		}
	}
	return nil
}

// Extents returns the file-space bounding box of all vertices.
func (b *Bound) Extents() (lo, hi math.Vec3) {
	return math.Bounds(b.Vertices)
}
