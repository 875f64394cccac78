package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/bndtool/pkg/bound"
	"github.com/Faultbox/bndtool/pkg/math"
)

// cString decodes a NUL-padded char array.
func cString(data []byte) string {
	if idx := bytes.IndexByte(data, 0); idx >= 0 {
		data = data[:idx]
	}
	return string(data)
}

func TestWriteBBND_Size(t *testing.T) {
	tests := []struct {
		name string
		b    *bound.Bound
	}{
		{"two materials", createTestBound()},
		{"empty", bound.New("BOUND")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteBBND(&buf, tc.b); err != nil {
				t.Fatalf("WriteBBND failed: %v", err)
			}

			v := len(tc.b.Vertices)
			m := max(1, len(tc.b.Materials))
			f := len(tc.b.Faces)
			want := 1 + 12 + 12*v + 104*m + 10*f
			if buf.Len() != want {
				t.Errorf("expected %d bytes, got %d", want, buf.Len())
			}
			if BBNDSize(tc.b) != want {
				t.Errorf("BBNDSize = %d, want %d", BBNDSize(tc.b), want)
			}
		})
	}
}

func TestWriteBBND_Layout(t *testing.T) {
	b := createTestBound()

	var buf bytes.Buffer
	if err := WriteBBND(&buf, b); err != nil {
		t.Fatalf("WriteBBND failed: %v", err)
	}
	r := bytes.NewReader(buf.Bytes())

	var header bbndHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		t.Fatalf("reading header: %v", err)
	}
	if header.Version != 1 {
		t.Errorf("expected version 1, got %d", header.Version)
	}
	if header.Vertices != 5 || header.Materials != 2 || header.Faces != 2 {
		t.Errorf("unexpected counts %+v", header)
	}

	for i, want := range b.Vertices {
		var v [3]float32
		binary.Read(r, binary.LittleEndian, &v)
		if (math.Vec3{X: v[0], Y: v[1], Z: v[2]}) != want {
			t.Errorf("vertex %d: got %v, want %v", i, v, want)
		}
	}

	for i, want := range b.Materials {
		var m bbndMaterial
		binary.Read(r, binary.LittleEndian, &m)
		if name := cString(m.Name[:]); name != want.Name {
			t.Errorf("material %d: name %q, want %q", i, name, want.Name)
		}
		if m.Elasticity != 0.1 || m.Friction != 0.5 {
			t.Errorf("material %d: elasticity/friction %f/%f", i, m.Elasticity, m.Friction)
		}
		if cString(m.Effect[:]) != "none" || cString(m.Sound[:]) != "none" {
			t.Errorf("material %d: effect/sound not 'none'", i)
		}
	}

	var quad, tri [5]uint16
	binary.Read(r, binary.LittleEndian, &quad)
	binary.Read(r, binary.LittleEndian, &tri)
	if quad != [5]uint16{0, 1, 2, 3, 0} {
		t.Errorf("quad record = %v", quad)
	}
	if tri != [5]uint16{1, 4, 2, 0, 1} {
		t.Errorf("tri record = %v, want fourth slot 0", tri)
	}

	if r.Len() != 0 {
		t.Errorf("%d trailing bytes", r.Len())
	}
}

func TestWriteBBND_DefaultMaterial(t *testing.T) {
	b := createTestBound()
	b.Materials = nil
	for i := range b.Faces {
		b.Faces[i].Material = 0
	}

	var buf bytes.Buffer
	if err := WriteBBND(&buf, b); err != nil {
		t.Fatalf("WriteBBND failed: %v", err)
	}

	data := buf.Bytes()
	if got := binary.LittleEndian.Uint32(data[5:9]); got != 1 {
		t.Errorf("expected material count 1, got %d", got)
	}
	offset := 13 + 12*len(b.Vertices)
	if name := cString(data[offset : offset+32]); name != "default" {
		t.Errorf("expected 'default' material, got %q", name)
	}
}

func TestWriteBBND_TruncatesName(t *testing.T) {
	b := createTestBound()
	b.Materials[0].Name = strings.Repeat("x", 40)

	var buf bytes.Buffer
	if err := WriteBBND(&buf, b); err != nil {
		t.Fatalf("WriteBBND failed: %v", err)
	}
	if buf.Len() != BBNDSize(b) {
		t.Errorf("long name changed record size: %d != %d", buf.Len(), BBNDSize(b))
	}
	offset := 13 + 12*len(b.Vertices)
	if name := string(buf.Bytes()[offset : offset+32]); name != strings.Repeat("x", 32) {
		t.Errorf("expected name truncated to 32 bytes, got %q", name)
	}
}

func TestWriteBBND_IndexOverflow(t *testing.T) {
	b := bound.New("BOUND")
	b.Vertices = make([]math.Vec3, maxIndex+2)

	var buf bytes.Buffer
	if err := WriteBBND(&buf, b); !errors.Is(err, bound.ErrIndexOverflow) {
		t.Errorf("expected ErrIndexOverflow, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("overflowing bound must not produce output")
	}
}

func TestWriteBBNDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bound.bbnd")
	b := createTestBound()

	if err := WriteBBNDFile(path, b); err != nil {
		t.Fatalf("WriteBBNDFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if int(info.Size()) != BBNDSize(b) {
		t.Errorf("file size %d, want %d", info.Size(), BBNDSize(b))
	}
}
