package formats

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Faultbox/bndtool/pkg/bound"
	"github.com/Faultbox/bndtool/pkg/encoding"
)

// BBND layout constants.
const (
	BBNDVersion = 1

	bbndNameSize     = 32
	bbndHeaderSize   = 1 + 3*4
	bbndVertexSize   = 3 * 4
	bbndMaterialSize = bbndNameSize + 2*4 + 2*bbndNameSize
	bbndFaceSize     = 5 * 2
)

// maxIndex is the largest value a u16 index field can hold.
const maxIndex = 0xFFFF

type bbndHeader struct {
	Version   uint8
	Vertices  uint32
	Materials uint32
	Faces     uint32
}

type bbndMaterial struct {
	Name       [bbndNameSize]byte
	Elasticity float32
	Friction   float32
	Effect     [bbndNameSize]byte
	Sound      [bbndNameSize]byte
}

// BBNDSize returns the exact encoded size of b in bytes.
func BBNDSize(b *bound.Bound) int {
	return bbndHeaderSize +
		len(b.Vertices)*bbndVertexSize +
		len(b.MaterialsOrDefault())*bbndMaterialSize +
		len(b.Faces)*bbndFaceSize
}

// checkBBND verifies every index fits its u16 field.
func checkBBND(b *bound.Bound) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if len(b.Vertices) > maxIndex+1 {
		return fmt.Errorf("%w: %d vertices", bound.ErrIndexOverflow, len(b.Vertices))
	}
	if len(b.Materials) > maxIndex+1 {
		return fmt.Errorf("%w: %d materials", bound.ErrIndexOverflow, len(b.Materials))
	}
	return nil
}

// WriteBBND writes b in the binary bound format (little-endian):
//
//	u8 version, u32 vertex/material/face counts,
//	vertices as 3×f32, materials as 104-byte records,
//	faces as 5×u16 (v0 v1 v2 v3 material; v3 is 0 for triangles).
func WriteBBND(w io.Writer, b *bound.Bound) error {
	if err := checkBBND(b); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	materials := b.MaterialsOrDefault()

	header := bbndHeader{
		Version:   BBNDVersion,
		Vertices:  uint32(len(b.Vertices)),
		Materials: uint32(len(materials)),
		Faces:     uint32(len(b.Faces)),
	}
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, v := range b.Vertices {
		if err := binary.Write(bw, binary.LittleEndian, [3]float32{v.X, v.Y, v.Z}); err != nil {
			return fmt.Errorf("writing vertex %d: %w", i, err)
		}
	}

	for i, m := range materials {
		rec := bbndMaterial{
			Elasticity: m.Elasticity,
			Friction:   m.Friction,
		}
		copy(rec.Name[:], encoding.FixedString(m.Name, bbndNameSize))
		copy(rec.Effect[:], encoding.FixedString(orNone(m.Effect), bbndNameSize))
		copy(rec.Sound[:], encoding.FixedString(orNone(m.Sound), bbndNameSize))
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("writing material %d: %w", i, err)
		}
	}

	for i, f := range b.Faces {
		var rec [5]uint16
		for j, idx := range f.Indices {
			rec[j] = uint16(idx)
		}
		rec[4] = uint16(f.Material)
		if err := binary.Write(bw, binary.LittleEndian, rec); err != nil {
			return fmt.Errorf("writing face %d: %w", i, err)
		}
	}

	return bw.Flush()
}

// WriteBBNDFile writes b to a binary bound file.
func WriteBBNDFile(path string, b *bound.Bound) error {
	if err := checkBBND(b); err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return WriteBBND(w, b)
	})
}
