// Package scene is the host side of a bound conversion: a set of named
// objects, some of them meshes, plus the materials they reference.
package scene

import (
	"github.com/Faultbox/bndtool/pkg/bound"
	"github.com/Faultbox/bndtool/pkg/encoding"
)

// BoundObjectName is the name, compared case-insensitively, of the object
// exported as the collision bound.
const BoundObjectName = "BOUND"

// Kind is the host object type.
type Kind string

// Object kinds.
const (
	KindMesh  Kind = "mesh"
	KindEmpty Kind = "empty"
)

// Object is any named scene object.
type Object interface {
	Name() string
	Kind() Kind
}

// MeshSource is a mesh object the exporter can read.
type MeshSource interface {
	Object

	// Mesh returns a private copy of the host-space geometry. With
	// applyModifiers the object's modifier stack is evaluated first.
	Mesh(applyModifiers bool) (*bound.HostMesh, error)

	// MaterialSlots returns the material names faces index into, in order.
	MaterialSlots() []string
}

// Scene is the set of objects a bound is exported from.
type Scene interface {
	Objects() []Object
}

// FindBound returns the scene's bound mesh. It fails with a
// *bound.PreconditionError when no object is named "bound" or when such
// an object is not a mesh.
func FindBound(s Scene) (MeshSource, error) {
	var found MeshSource
	for _, obj := range s.Objects() {
		if !encoding.EqualNames(obj.Name(), BoundObjectName) {
			continue
		}
		src, ok := obj.(MeshSource)
		if !ok || obj.Kind() != KindMesh {
			return nil, &bound.PreconditionError{Object: obj.Name(), Err: bound.ErrBoundNotMesh}
		}
		if found == nil {
			found = src
		}
	}
	if found == nil {
		return nil, &bound.PreconditionError{Err: bound.ErrNoBound}
	}
	return found, nil
}

// Empty is an object without geometry.
type Empty struct {
	name string
}

// NewEmpty creates an empty object.
func NewEmpty(name string) *Empty {
	return &Empty{name: name}
}

// Name returns the object name.
func (e *Empty) Name() string { return e.name }

// Kind returns KindEmpty.
func (e *Empty) Kind() Kind { return KindEmpty }

// MeshObject is an in-memory mesh with an optional modifier stack.
type MeshObject struct {
	name      string
	mesh      *bound.HostMesh
	Modifiers []Modifier
}

// NewMeshObject creates a mesh object owning mesh.
func NewMeshObject(name string, mesh *bound.HostMesh) *MeshObject {
	return &MeshObject{name: name, mesh: mesh}
}

// Name returns the object name.
func (o *MeshObject) Name() string { return o.name }

// Kind returns KindMesh.
func (o *MeshObject) Kind() Kind { return KindMesh }

// AddModifier appends m to the modifier stack.
func (o *MeshObject) AddModifier(m Modifier) {
	o.Modifiers = append(o.Modifiers, m)
}

// MaterialSlots returns the material names faces index into.
func (o *MeshObject) MaterialSlots() []string {
	return append([]string(nil), o.mesh.MaterialSlots...)
}

// Mesh returns a copy of the geometry, evaluated through the modifier
// stack when applyModifiers is set.
func (o *MeshObject) Mesh(applyModifiers bool) (*bound.HostMesh, error) {
	m := cloneMesh(o.mesh)
	if !applyModifiers {
		return m, nil
	}
	for _, mod := range o.Modifiers {
		var err error
		if m, err = mod.Apply(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func cloneMesh(m *bound.HostMesh) *bound.HostMesh {
	c := &bound.HostMesh{
		Vertices:      append(m.Vertices[:0:0], m.Vertices...),
		Faces:         make([]bound.Face, len(m.Faces)),
		MaterialSlots: append([]string(nil), m.MaterialSlots...),
	}
	for i, f := range m.Faces {
		c.Faces[i] = bound.Face{
			Indices:  append([]int(nil), f.Indices...),
			Material: f.Material,
		}
	}
	return c
}

// Memory is an in-memory scene.
type Memory struct {
	objects   []Object
	materials []*Material
}

// NewMemory creates an empty scene.
func NewMemory() *Memory {
	return &Memory{}
}

// Objects returns the scene objects in insertion order.
func (s *Memory) Objects() []Object {
	return s.objects
}

// Materials returns the scene materials in creation order.
func (s *Memory) Materials() []*Material {
	return s.materials
}

// Add appends an object.
func (s *Memory) Add(obj Object) {
	s.objects = append(s.objects, obj)
}

// AddMaterial creates a material named after the lower-cased name.
func (s *Memory) AddMaterial(name string) *Material {
	m := NewMaterial(name)
	s.materials = append(s.materials, m)
	return m
}

// ImportBound adds mesh as a new object named BOUND. Materials are
// created for its slots by lower-cased name; a name repeated within the
// slot list reuses the material created for it in this call.
func (s *Memory) ImportBound(mesh *bound.HostMesh) *MeshObject {
	created := make(map[string]*Material)
	slots := make([]string, len(mesh.MaterialSlots))
	for i, name := range mesh.MaterialSlots {
		key := encoding.FoldName(name)
		m, ok := created[key]
		if !ok {
			m = s.AddMaterial(name)
			created[key] = m
		}
		slots[i] = m.Name
	}

	m := cloneMesh(mesh)
	m.MaterialSlots = slots
	obj := NewMeshObject(BoundObjectName, m)
	s.Add(obj)
	return obj
}
