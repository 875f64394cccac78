package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/bndtool/pkg/bound"
	"github.com/Faultbox/bndtool/pkg/encoding"
	"github.com/Faultbox/bndtool/pkg/math"
)

// BNDVersion is the version string written in the BND header.
const BNDVersion = "1.01"

// BND format errors.
var (
	ErrMalformedBNDLine = errors.New("malformed BND line")
)

// BNDHeader holds the counts a BND file declares about itself.
// They are informational; the reader trusts the body, not the header.
type BNDHeader struct {
	Version   string
	Verts     int
	Materials int
	Edges     int
	Polys     int
}

// BND is a parsed text bound.
type BND struct {
	Header BNDHeader
	Bound  *bound.Bound

	// Skipped lists every line that was ignored or repaired while reading.
	Skipped []*bound.MalformedInputError
}

// WriteBND writes b in the text format.
func WriteBND(w io.Writer, b *bound.Bound) error {
	if err := b.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	materials := b.MaterialsOrDefault()

	fmt.Fprintf(bw, "version: %s\n", BNDVersion)
	fmt.Fprintf(bw, "verts: %d\n", len(b.Vertices))
	fmt.Fprintf(bw, "materials: %d\n", len(materials))
	fmt.Fprintf(bw, "edges: 0\n")
	fmt.Fprintf(bw, "polys: %d\n\n", len(b.Faces))

	for _, v := range b.Vertices {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
	}
	bw.WriteString("\n")

	for _, m := range materials {
		writeBNDMaterial(bw, m)
	}
	bw.WriteString("\n")

	for _, f := range b.Faces {
		if f.IsQuad() {
			fmt.Fprintf(bw, "quad %d  %d  %d  %d  %d\n", f.Indices[0], f.Indices[1], f.Indices[2], f.Indices[3], f.Material)
		} else {
			fmt.Fprintf(bw, "tri %d  %d  %d  %d\n", f.Indices[0], f.Indices[1], f.Indices[2], f.Material)
		}
	}

	return bw.Flush()
}

func writeBNDMaterial(w *bufio.Writer, m bound.Material) {
	fmt.Fprintf(w, "mtl %s {\n", m.Name)
	fmt.Fprintf(w, "\telasticity: %.6f\n", m.Elasticity)
	fmt.Fprintf(w, "\tfriction: %.6f\n", m.Friction)
	fmt.Fprintf(w, "\teffect: %s\n", orNone(m.Effect))
	fmt.Fprintf(w, "\tsound: %s\n", orNone(m.Sound))
	w.WriteString("}\n")
}

func orNone(s string) string {
	if s == "" {
		return bound.DefaultEffect
	}
	return s
}

// WriteBNDFile writes b to a text bound file.
func WriteBNDFile(path string, b *bound.Bound) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return WriteBND(w, b)
	})
}

// ParseBND parses a text bound.
//
// Every line is lower-cased and split on whitespace. Lines with fewer than
// two tokens and unknown keywords are ignored. A vertex or face line that
// cannot be applied is recorded in Skipped and the rest of the file is
// still read. Material physical properties are not read back: every
// material gets the defaults.
func ParseBND(data []byte) (*BND, error) {
	bnd := &BND{Bound: bound.New("BOUND")}

	// line number of each accepted face, for material range diagnostics
	var faceLines []int

	skip := func(line int, text string, err error) {
		bnd.Skipped = append(bnd.Skipped, &bound.MalformedInputError{Line: line, Text: text, Err: err})
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(scanner.Text())
		tokens := strings.Fields(encoding.FoldName(raw))
		if len(tokens) < 2 {
			continue
		}

		switch tokens[0] {
		case "v":
			v, err := parseBNDVertex(tokens)
			if err != nil {
				skip(lineNo, raw, err)
				continue
			}
			bnd.Bound.AddVertex(v)

		case "mtl":
			bnd.Bound.AddMaterial(bound.NewMaterial(tokens[1]))

		case "tri", "quad":
			indices, material, err := parseBNDFace(tokens)
			if err == nil {
				err = bnd.Bound.AddFace(indices, material)
			}
			if err != nil {
				skip(lineNo, raw, err)
				continue
			}
			faceLines = append(faceLines, lineNo)

		case "version:":
			bnd.Header.Version = tokens[1]
		case "verts:":
			bnd.Header.Verts, _ = strconv.Atoi(tokens[1])
		case "materials:":
			bnd.Header.Materials, _ = strconv.Atoi(tokens[1])
		case "edges:":
			bnd.Header.Edges, _ = strconv.Atoi(tokens[1])
		case "polys:":
			bnd.Header.Polys, _ = strconv.Atoi(tokens[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading BND line %d: %w", lineNo+1, err)
	}

	// Materials may be declared after the faces that use them, so the
	// range check waits until the whole file is read.
	materials := max(1, len(bnd.Bound.Materials))
	for i := range bnd.Bound.Faces {
		f := &bnd.Bound.Faces[i]
		if f.Material >= materials {
			skip(faceLines[i], "", fmt.Errorf("%w: %d (have %d materials), using 0", bound.ErrMaterialRange, f.Material, materials))
			f.Material = 0
		}
	}

	return bnd, nil
}

func parseBNDVertex(tokens []string) (math.Vec3, error) {
	if len(tokens) < 4 {
		return math.Vec3{}, fmt.Errorf("%w: vertex needs 3 coordinates", ErrMalformedBNDLine)
	}
	var xyz [3]float32
	for i := range xyz {
		f, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("%w: coordinate %q", ErrMalformedBNDLine, tokens[i+1])
		}
		xyz[i] = float32(f)
	}
	return math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func parseBNDFace(tokens []string) ([]int, int, error) {
	count := 3
	if tokens[0] == "quad" {
		count = 4
	}
	if len(tokens) < count+2 {
		return nil, 0, fmt.Errorf("%w: %s needs %d indices and a material", ErrMalformedBNDLine, tokens[0], count)
	}

	indices := make([]int, count)
	for i := range indices {
		n, err := strconv.Atoi(tokens[i+1])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: index %q", ErrMalformedBNDLine, tokens[i+1])
		}
		indices[i] = n
	}
	material, err := strconv.Atoi(tokens[count+1])
	if err != nil {
		return nil, 0, fmt.Errorf("%w: material %q", ErrMalformedBNDLine, tokens[count+1])
	}
	return indices, material, nil
}

// ParseBNDFile parses a text bound from disk.
func ParseBNDFile(path string) (*BND, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading BND file: %w", err)
	}
	return ParseBND(data)
}
